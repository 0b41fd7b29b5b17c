package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wkchan/rainripple/pkg/dataset"
	"github.com/wkchan/rainripple/pkg/stations"
)

// stationsCommand creates the stations command. It lists every station found
// in a rainfall CSV along with its resolved canvas position, rainfall total,
// and whether the position came from a config override or the name hash.
func (c *CLI) stationsCommand() *cobra.Command {
	var stationsFile string

	cmd := &cobra.Command{
		Use:   "stations [csv]",
		Short: "List stations with their resolved canvas positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStations(args[0], stationsFile)
		},
	}

	cmd.Flags().StringVar(&stationsFile, "stations", "", "TOML file with station position overrides")

	return cmd
}

func runStations(input, stationsFile string) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := dataset.ReadCSV(f)
	if err != nil {
		return err
	}

	registry := stations.NewRegistry()
	if stationsFile != "" {
		registry, err = stations.LoadConfig(stationsFile)
		if err != nil {
			return err
		}
	}
	resolved := registry.Resolve(table.Stations())

	fmt.Println(StyleTitle.Render(fmt.Sprintf("%d stations, %d days", len(resolved), table.NumDays())))
	printNewline()

	for i, st := range resolved {
		source := "hashed"
		if registry.Overridden(st.Name) {
			source = "config"
		}
		fmt.Printf("%s  %s  %s %s\n",
			StyleValue.Render(fmt.Sprintf("%-24s", st.Name)),
			StyleNumber.Render(fmt.Sprintf("(%.3f, %.3f)", st.X, st.Y)),
			StyleHighlight.Render(fmt.Sprintf("%8.1f mm", table.StationTotal(i))),
			StyleDim.Render(source),
		)
	}

	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/aradsms/contactbook/internal/ui"
	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

type weatherResult struct {
	Location *domain.Location `json:"location,omitempty"`
	*domain.Report
}

func newWeatherCommand(rt *runtime) *cobra.Command {
	var units string
	cmd := &cobra.Command{
		Use:   "weather [city]",
		Short: "Show current weather and a five day forecast",
		Long: `Show current weather and a five day forecast for a city.
Without a city the location is guessed from your IP address.`,
		Args: cobra.MaximumNArgs(1),
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			if units != "" {
				rt.cfg.OpenWeatherUnits = units
			}
			svc := rt.weatherService(cmd.Context())

			var (
				report *domain.Report
				loc    *domain.Location
				err    error
			)
			if len(args) == 1 {
				report, err = svc.Lookup(cmd.Context(), args[0])
			} else {
				report, loc, err = svc.LookupHere(cmd.Context())
			}
			if err != nil {
				return err
			}

			if rt.opts.jsonOut {
				return rt.printJSON(cmd, weatherResult{Location: loc, Report: report})
			}
			cmd.Print(ui.RenderWeatherReport(report, loc))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&units, "units", "u", "", "metric or imperial (overrides OPENWEATHER_UNITS)")

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "List recently searched cities",
		Args:  cobra.NoArgs,
		RunE: rt.run(func(cmd *cobra.Command, args []string) error {
			cities, err := rt.weatherService(cmd.Context()).History(cmd.Context())
			if err != nil {
				return err
			}
			if rt.opts.jsonOut {
				return rt.printJSON(cmd, cities)
			}
			if len(cities) == 0 {
				cmd.Println("No searches yet.")
				return nil
			}
			for _, c := range cities {
				cmd.Println(c)
			}
			return nil
		}),
	})
	return cmd
}

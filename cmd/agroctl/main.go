// Command agroctl queries the prediction backend from a terminal using the
// same services as the dashboard server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrovision/dashboard-go/internal/client"
	"github.com/agrovision/dashboard-go/internal/config"
	"github.com/agrovision/dashboard-go/internal/monitor"
	"github.com/agrovision/dashboard-go/internal/service"
	"github.com/agrovision/dashboard-go/internal/view"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	backend string
	timeout time.Duration
}

func (a *app) client() *client.Client {
	return client.New(a.backend)
}

func (a *app) timeoutCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "agroctl",
		Short:         "Crop health, price and supply queries against the AGRO-VISION backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.backend, "backend", cfg.BackendURL, "prediction backend base URL")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "per-command timeout")

	root.AddCommand(
		newPredictCmd(a),
		newTrainCmd(a),
		newWeatherCmd(a),
		newPricesCmd(a),
		newSupplyCmd(a),
		newStatusCmd(a),
		newCropsCmd(),
	)
	return root
}

func newPredictCmd(a *app) *cobra.Command {
	var city, crop string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict crop health and market price for a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeoutCtx(cmd)
			defer cancel()

			svc := service.NewDashboardService(a.client(), city, crop)
			result, err := svc.Predict(ctx, city, crop)
			if err != nil {
				return fmt.Errorf("%s: %w", service.UserMessage(err, service.MsgPredictionFailed), err)
			}
			st := svc.State()
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"prediction": view.NewPredictionPanel(result, crop),
				"weather":    view.NewWeatherCard(st.Weather, city),
				"map":        view.NewMapDisplay(st.Geo),
			})
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city to geocode")
	cmd.Flags().StringVar(&crop, "crop", "wheat", "crop to price")
	cmd.MarkFlagRequired("city")
	return cmd
}

func newTrainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Retrain the backend models",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeoutCtx(cmd)
			defer cancel()

			result, err := service.NewDashboardService(a.client(), "", "").TrainModels(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", service.UserMessage(err, service.MsgTrainFailed), err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newWeatherCmd(a *app) *cobra.Command {
	var lat, lon float64
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the daily forecast for coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeoutCtx(cmd)
			defer cancel()

			series, err := service.NewDashboardService(a.client(), "", "").Forecast(ctx, lat, lon)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view.NewWeatherPanel(series))
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 19.076, "latitude")
	cmd.Flags().Float64Var(&lon, "lon", 72.8777, "longitude")
	return cmd
}

func newPricesCmd(a *app) *cobra.Command {
	var crop string
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show the recent market price series",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeoutCtx(cmd)
			defer cancel()

			prices, err := service.NewDashboardService(a.client(), "", crop).LoadRecentPrices(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), view.NewPriceChart(crop, prices))
		},
	}
	cmd.Flags().StringVar(&crop, "crop", "wheat", "crop label for the chart")
	return cmd
}

func newSupplyCmd(a *app) *cobra.Command {
	var city string
	cmd := &cobra.Command{
		Use:   "supply",
		Short: "Request warehouse allocations for a city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.timeoutCtx(cmd)
			defer cancel()

			result, err := service.NewSupplyService(a.client(), a.cfg.DemandUnits).Query(ctx, city)
			if err != nil {
				return fmt.Errorf("%s: %w", service.UserMessage(err, service.MsgSupplyFailed), err)
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"summary": result.Summary,
				"table":   view.NewSupplyTable(result.Allocations, result.Message),
			})
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "city whose demand is allocated")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the model retraining status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			m := monitor.New(a.client(), monitor.WithInterval(interval))

			if !watch {
				ctx, cancel := a.timeoutCtx(cmd)
				defer cancel()
				snap := m.Poll(ctx)
				return printJSON(out, view.NewRetrainBadge(snap.RetrainStatus, false))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m.OnChange(func(prev, next monitor.Snapshot) {
				printJSON(out, view.NewRetrainBadge(next.RetrainStatus, false))
			})
			if err := m.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			m.Stop()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling and print every change")
	cmd.Flags().DurationVar(&interval, "interval", a.cfg.PollInterval, "polling interval for --watch")
	return cmd
}

func newCropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List the supported crops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), view.CropSelector())
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

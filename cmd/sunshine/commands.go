package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/lox/sunshine/internal/api"
	"github.com/lox/sunshine/internal/dates"
	"github.com/lox/sunshine/internal/executor"
	"github.com/lox/sunshine/internal/export"
	"github.com/lox/sunshine/internal/forecast"
	"github.com/lox/sunshine/internal/ingest"
	"github.com/lox/sunshine/internal/models"
)

type ServeCmd struct {
	NoSync bool `name:"no-sync" help:"Serve stored data without scheduling syncs."`
}

func (c *ServeCmd) Run(env *Env) error {
	app := env.App
	if c.NoSync {
		log.Println("serve: syncing disabled (--no-sync)")
		app.Repository.DisableSync()
	} else {
		app.Source.Initialize()
	}

	sub := app.Store.WeatherFrom(dates.Today(time.Now())).Observe(app.Executors.Main, func(entries []models.ListWeatherEntry) {
		log.Printf("serve: list view has %d days", len(entries))
	})
	defer sub.Cancel()

	server := api.NewServer(app.Repository, app.Source, app.Store, app.Prefs, app.Config.Addr)
	return server.Run(env.Ctx)
}

type SyncCmd struct{}

func (c *SyncCmd) Run(env *Env) error {
	n, err := env.App.Source.SyncWeather(env.Ctx)
	if errors.Is(err, ingest.ErrEmptyResult) {
		fmt.Fprintln(env.Out, "provider returned no forecast days, stored data unchanged")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "synced %d days for %s\n", n, env.App.Prefs.Location())
	return nil
}

type WatchCmd struct {
	Date string `help:"Also watch the detail view for this day (YYYY-MM-DD)."`
	Sync bool   `help:"Request a sync on start."`
}

func (c *WatchCmd) Run(env *Env) error {
	app := env.App
	metric := app.Prefs.IsMetric()

	sub := app.Repository.CurrentWeatherForecasts().Observe(app.Executors.Main, func(entries []models.ListWeatherEntry) {
		fmt.Fprintf(env.Out, "-- %s: %d days\n", time.Now().Format(time.TimeOnly), len(entries))
		printList(env, entries, metric)
	})
	defer sub.Cancel()

	if c.Date != "" {
		day, err := dates.Parse(c.Date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		dsub := app.Repository.WeatherByDate(day).Observe(app.Executors.Main, func(e *models.WeatherEntry) {
			if e == nil {
				fmt.Fprintf(env.Out, "-- %s: not stored\n", dates.Format(day))
				return
			}
			printDetail(env, e, metric)
		})
		defer dsub.Cancel()
	}

	if c.Sync {
		app.Source.StartImmediateSync()
	}

	<-env.Ctx.Done()
	return nil
}

type ForecastCmd struct {
	Date string `arg:"" optional:"" help:"Day to show in detail (YYYY-MM-DD)."`
}

func (c *ForecastCmd) Run(env *Env) error {
	app := env.App
	metric := app.Prefs.IsMetric()

	if c.Date != "" {
		day, err := dates.Parse(c.Date)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		e, err := app.Store.GetWeatherByDate(day)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("no forecast stored for %s", dates.Format(day))
		}
		printDetail(env, e, metric)
		return nil
	}

	entries, err := app.Store.GetWeatherFrom(dates.Today(time.Now()))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(env.Out, "no forecasts stored, run `sunshine sync`")
		return nil
	}
	printList(env, entries, metric)
	return nil
}

type ExportCmd struct {
	Format string `help:"Output format." default:"json" enum:"json,csv"`
	Output string `short:"o" help:"Write to this file instead of stdout."`
	All    bool   `help:"Include days before today."`
}

func (c *ExportCmd) Run(env *Env) error {
	from := dates.Today(time.Now())
	if c.All {
		from = time.Unix(0, 0)
	}
	entries, err := env.App.Store.GetAllWeatherFrom(from)
	if err != nil {
		return err
	}

	out := env.Out
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Output, err)
		}
		defer f.Close()
		out = f
	}
	if err := export.Write(out, c.Format, entries); err != nil {
		return err
	}
	if c.Output != "" {
		log.Printf("export: wrote %d entries to %s", len(entries), c.Output)
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" type:"existingfile" help:"CSV file produced by export --format csv."`
}

func (c *ImportCmd) Run(env *Env) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := export.ReadCSV(f)
	if err != nil {
		return err
	}
	app := env.App
	var insertErr error
	app.Executors.DiskIO.Execute(func() {
		insertErr = app.Store.BulkInsert(entries...)
	})
	executor.Wait(app.Executors.DiskIO)
	if insertErr != nil {
		return fmt.Errorf("insert: %w", insertErr)
	}
	fmt.Fprintf(env.Out, "imported %d entries\n", len(entries))
	return nil
}

type PrefsCmd struct {
	Show          PrefsShowCmd          `cmd:"" default:"1" help:"Print current preferences."`
	Location      PrefsLocationCmd      `cmd:"" help:"Set the forecast location and clear coordinates."`
	Coords        PrefsCoordsCmd        `cmd:"" help:"Set or clear forecast coordinates."`
	Units         PrefsUnitsCmd         `cmd:"" help:"Set display units."`
	Notifications PrefsNotificationsCmd `cmd:"" help:"Turn new-weather notifications on or off."`
}

type PrefsShowCmd struct{}

func (c *PrefsShowCmd) Run(env *Env) error {
	p := env.App.Prefs
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "location\t%s\n", p.Location())
	if lat, lon, ok := p.Coordinates(); ok {
		fmt.Fprintf(tw, "coordinates\t%s, %s\n", strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64))
	} else {
		fmt.Fprintf(tw, "coordinates\t-\n")
	}
	fmt.Fprintf(tw, "units\t%s\n", p.Units())
	fmt.Fprintf(tw, "notifications\t%t\n", p.NotificationsEnabled())
	if last := p.LastNotificationTime(); !last.IsZero() {
		fmt.Fprintf(tw, "last notification\t%s\n", last.Format(time.RFC3339))
	} else {
		fmt.Fprintf(tw, "last notification\tnever\n")
	}
	return tw.Flush()
}

type PrefsLocationCmd struct {
	Location string `arg:"" help:"Place query, e.g. \"London,UK\"."`
}

func (c *PrefsLocationCmd) Run(env *Env) error {
	return env.App.Prefs.SetLocation(c.Location)
}

type PrefsCoordsCmd struct {
	Lat   float64 `arg:"" optional:"" help:"Latitude."`
	Lon   float64 `arg:"" optional:"" help:"Longitude."`
	Reset bool    `help:"Forget stored coordinates."`
}

func (c *PrefsCoordsCmd) Run(env *Env) error {
	if c.Reset {
		return env.App.Prefs.ResetCoordinates()
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("coordinates out of range: %v, %v", c.Lat, c.Lon)
	}
	return env.App.Prefs.SetCoordinates(c.Lat, c.Lon)
}

type PrefsUnitsCmd struct {
	Units string `arg:"" enum:"metric,imperial" help:"metric or imperial."`
}

func (c *PrefsUnitsCmd) Run(env *Env) error {
	return env.App.Prefs.SetUnits(c.Units)
}

type PrefsNotificationsCmd struct {
	State string `arg:"" enum:"on,off" help:"on or off."`
}

func (c *PrefsNotificationsCmd) Run(env *Env) error {
	return env.App.Prefs.SetNotificationsEnabled(c.State == "on")
}

func printList(env *Env, entries []models.ListWeatherEntry, metric bool) {
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCONDITION\tHIGH\tLOW")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			dates.Format(e.Date),
			forecast.Describe(e.WeatherIconID),
			forecast.FormatTemperature(e.Max, metric),
			forecast.FormatTemperature(e.Min, metric))
	}
	tw.Flush()
}

func printDetail(env *Env, e *models.WeatherEntry, metric bool) {
	tw := tabwriter.NewWriter(env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", dates.Format(e.Date))
	fmt.Fprintf(tw, "condition\t%s\n", forecast.Describe(e.WeatherIconID))
	fmt.Fprintf(tw, "high\t%s\n", forecast.FormatTemperature(e.Max, metric))
	fmt.Fprintf(tw, "low\t%s\n", forecast.FormatTemperature(e.Min, metric))
	fmt.Fprintf(tw, "humidity\t%.0f %%\n", e.Humidity)
	fmt.Fprintf(tw, "pressure\t%.0f hPa\n", e.Pressure)
	fmt.Fprintf(tw, "wind\t%s\n", forecast.FormatWind(e.Wind, e.Degrees, metric))
	tw.Flush()
}

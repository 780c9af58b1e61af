package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"outfit-planner/internal/accessories"
	"outfit-planner/internal/backend"
	"outfit-planner/internal/config"
	"outfit-planner/internal/database"
	"outfit-planner/internal/history"
	"outfit-planner/internal/location"
	"outfit-planner/internal/metrics"
	"outfit-planner/internal/outfit"
	"outfit-planner/internal/planner"
	"outfit-planner/internal/profile"
	"outfit-planner/internal/storage"
	"outfit-planner/internal/view"
	"outfit-planner/internal/wardrobe"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	client := backend.NewClient(cfg, metricsStore)

	snapshots, err := storage.NewSnapshotStore("data/plans")
	if err != nil {
		log.Fatalf("Failed to initialize snapshot store: %v", err)
	}

	backoff := planner.Backoff{
		Delay:      cfg.GenerateDelay,
		Retries:    cfg.GenerateRetries,
		RetryDelay: cfg.GenerateRetryDelay,
	}
	controller := planner.NewController(client, backoff)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plans":
		runPlans(ctx, controller, snapshots)
	case "plan":
		runPlan(ctx, controller, client, snapshots, os.Args[2:])
	case "delete":
		runDelete(ctx, controller, snapshots, os.Args[2:])
	case "regen":
		runRegen(ctx, controller, snapshots, os.Args[2:])
	case "offline":
		runOffline(snapshots)
	case "preview":
		runPreview(ctx, controller, os.Args[2:])
	case "wardrobe":
		runWardrobe(ctx, client, os.Args[2:])
	case "accessories":
		runAccessories(ctx, client, os.Args[2:])
	case "history":
		runHistory(ctx, client)
	case "login":
		runLogin(ctx, client, os.Args[2:])
	case "metrics":
		runMetrics(metricsStore, filepath.Dir(cfg.DatabasePath))
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// runPlans lists saved plans and refreshes the offline snapshots.
func runPlans(ctx context.Context, c *planner.Controller, snapshots *storage.SnapshotStore) {
	if err := c.LoadSavedPlans(ctx); err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}
	if err := snapshots.SaveAll(c.SavedPlans()); err != nil {
		log.Printf("Warning: failed to refresh snapshots: %v", err)
	}
	printSaved(c.SavedPlans())
}

func runPlan(ctx context.Context, c *planner.Controller, client *backend.Client, snapshots *storage.SnapshotStore, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	start := planCmd.String("start", "", "First date (YYYY-MM-DD)")
	end := planCmd.String("end", "", "Last date; omit for a single day")
	place := planCmd.String("location", "", "City or place name")
	lat := planCmd.Float64("lat", 0, "Latitude, used with -lon when -location is omitted")
	lon := planCmd.Float64("lon", 0, "Longitude")
	occasion := planCmd.String("occasion", "Casual", "Occasion: "+strings.Join(outfit.Occasions, ", "))
	weather := planCmd.String("weather", "", "Manual weather override, skips the forecast")
	save := planCmd.Bool("save", false, "Save every generated day")
	htmlOut := planCmd.String("html", "", "Also write the rendered session HTML to this file")
	planCmd.Parse(args)

	if *start == "" {
		log.Fatal("-start is required")
	}

	if err := c.LoadSavedPlans(ctx); err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}

	picker := location.NewPicker(client)
	switch {
	case *place != "":
		places, err := client.Autocomplete(ctx, *place)
		if err != nil || len(places) == 0 {
			log.Fatalf("Could not resolve location %q", *place)
		}
		c.SetPlace(places[0].Label, places[0].Lat, places[0].Lon)
		fmt.Printf("Location: %s\n", places[0].Label)
	case *lat != 0 || *lon != 0:
		detected, err := picker.Detect(ctx, *lat, *lon)
		if err != nil {
			log.Fatalf("Could not resolve coordinates: %v", err)
		}
		c.SetPlace(detected.Label, detected.Lat, detected.Lon)
		fmt.Printf("Location: %s\n", detected.Label)
	default:
		log.Fatal("Either -location or -lat/-lon is required")
	}

	c.SetOccasion(*occasion)
	c.SetWeatherOverride(*weather)

	dates := []string{*start}
	if *end != "" {
		span, err := planner.DateRange(*start, *end)
		if err != nil {
			log.Fatalf("Invalid date range: %v", err)
		}
		dates = span
	}

	if err := c.GenerateForRange(ctx, dates); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	for _, d := range dates {
		entry, _ := c.Temp(d)
		printEntry(entry)

		if !*save || !entry.Ready() {
			continue
		}
		if _, err := c.SaveDate(ctx, d); err != nil {
			log.Printf("Failed to save %s: %v", d, err)
			continue
		}
		saved, _ := c.Saved(d)
		if err := snapshots.Save(saved); err != nil {
			log.Printf("Warning: failed to snapshot %s: %v", d, err)
		}
		fmt.Printf("  saved (id %d)\n", saved.ID)
	}

	if *htmlOut != "" {
		html, err := view.RenderSlider(view.BuildSlider(c))
		if err != nil {
			log.Fatalf("Failed to render session: %v", err)
		}
		writeHTML(*htmlOut, html)
	}
}

func runDelete(ctx context.Context, c *planner.Controller, snapshots *storage.SnapshotStore, args []string) {
	delCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	date := delCmd.String("date", "", "Date to delete (YYYY-MM-DD)")
	delCmd.Parse(args)
	if *date == "" {
		log.Fatal("-date is required")
	}

	if err := c.LoadSavedPlans(ctx); err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}
	if err := c.DeleteDate(ctx, *date); err != nil {
		log.Fatalf("Delete failed: %v", err)
	}
	if err := snapshots.Delete(*date); err != nil {
		log.Printf("Warning: failed to remove snapshot: %v", err)
	}
	fmt.Printf("Deleted plan for %s\n", *date)
}

func runRegen(ctx context.Context, c *planner.Controller, snapshots *storage.SnapshotStore, args []string) {
	regenCmd := flag.NewFlagSet("regen", flag.ExitOnError)
	date := regenCmd.String("date", "", "Saved date to regenerate (YYYY-MM-DD)")
	save := regenCmd.Bool("save", false, "Save the new outfit immediately")
	regenCmd.Parse(args)
	if *date == "" {
		log.Fatal("-date is required")
	}

	if err := c.LoadSavedPlans(ctx); err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}
	if err := c.RegenerateDate(ctx, *date); err != nil {
		log.Fatalf("Regenerate failed: %v", err)
	}

	entry, _ := c.Temp(*date)
	printEntry(entry)

	if *save && entry.Ready() {
		if _, err := c.SaveDate(ctx, *date); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		saved, _ := c.Saved(*date)
		if err := snapshots.Save(saved); err != nil {
			log.Printf("Warning: failed to snapshot: %v", err)
		}
		fmt.Printf("  saved (id %d)\n", saved.ID)
	}
}

// runOffline prints the last snapshotted plans without touching the
// backend.
func runOffline(snapshots *storage.SnapshotStore) {
	plans, err := snapshots.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load snapshots: %v", err)
	}
	if len(plans) == 0 {
		fmt.Println("No offline snapshots yet. Run 'plans' while online first.")
		return
	}
	printSaved(plans)
}

// runPreview renders the month grid, or the saved-day viewer when -date
// is given, to HTML.
func runPreview(ctx context.Context, c *planner.Controller, args []string) {
	prevCmd := flag.NewFlagSet("preview", flag.ExitOnError)
	month := prevCmd.String("month", "", "Month to render (YYYY-MM), defaults to the current one")
	date := prevCmd.String("date", "", "Render the saved-day viewer for this date instead")
	out := prevCmd.String("out", "", "Write HTML to this file instead of stdout")
	prevCmd.Parse(args)

	if err := c.LoadSavedPlans(ctx); err != nil {
		log.Fatalf("Failed to load plans: %v", err)
	}

	var html string
	var err error
	if *date != "" {
		day, ok := view.BuildSavedDay(c, *date)
		if !ok {
			log.Fatalf("No saved plan for %s", *date)
		}
		html, err = view.RenderSavedDay(day)
	} else {
		now := time.Now()
		year, m := now.Year(), now.Month()
		if *month != "" {
			parsed, perr := time.Parse("2006-01", *month)
			if perr != nil {
				log.Fatalf("Invalid month %q: %v", *month, perr)
			}
			year, m = parsed.Year(), parsed.Month()
		}
		html, err = view.RenderCalendar(view.BuildCalendar(c, year, m, now))
	}
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	writeHTML(*out, html)
}

func writeHTML(path, html string) {
	if path == "" {
		fmt.Println(html)
		return
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
}

func runWardrobe(ctx context.Context, client *backend.Client, args []string) {
	wardCmd := flag.NewFlagSet("wardrobe", flag.ExitOnError)
	filter := wardCmd.String("filter", "all", "Filter: "+strings.Join(wardrobe.Filters, ", "))
	wardCmd.Parse(args)

	svc := wardrobe.NewService(client)
	groups, err := svc.List(ctx, *filter)
	if err != nil {
		log.Fatalf("Failed to load wardrobe: %v", err)
	}
	for _, g := range groups {
		fmt.Printf("%s:\n", g.Category)
		for _, it := range g.Items {
			fmt.Printf("  %s %s (%s, worn %d times)\n", it.Icon, it.Name, it.Status, it.WearCount)
		}
	}
}

func runAccessories(ctx context.Context, client *backend.Client, args []string) {
	accCmd := flag.NewFlagSet("accessories", flag.ExitOnError)
	kind := accCmd.String("type", "all", "Filter by type: "+strings.Join(accessories.Types, ", "))
	add := accCmd.String("add", "", "Add an accessory with this name")
	remove := accCmd.String("delete", "", "Delete an accessory by id")
	accCmd.Parse(args)

	svc := accessories.NewService(client)
	switch {
	case *add != "":
		created, err := svc.Add(ctx, *add, *kind)
		if err != nil {
			log.Fatalf("Failed to add accessory: %v", err)
		}
		fmt.Printf("Added %s %s (id %s)\n", created.Icon, created.Name, created.ID)
	case *remove != "":
		if err := svc.Delete(ctx, *remove); err != nil {
			log.Fatalf("Failed to delete accessory: %v", err)
		}
		fmt.Printf("Deleted accessory %s\n", *remove)
	default:
		accs, err := svc.List(ctx, *kind)
		if err != nil {
			log.Fatalf("Failed to load accessories: %v", err)
		}
		for _, a := range accs {
			fmt.Printf("%s %s (%s, id %s)\n", a.Icon, a.Name, a.Type, a.ID)
		}
	}
}

// runLogin checks credentials against the backend; the backend owns the
// session cookie, so success here just confirms they work.
func runLogin(ctx context.Context, client *backend.Client, args []string) {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	email := loginCmd.String("email", "", "Account email")
	password := loginCmd.String("password", "", "Account password")
	loginCmd.Parse(args)

	svc := profile.NewService(client)
	if err := svc.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Println("Login OK.")
}

func runHistory(ctx context.Context, client *backend.Client) {
	svc := history.NewService(client)
	entries, err := svc.List(ctx)
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}
	for _, e := range entries {
		fmt.Printf("%s %s %s %s\n", e.Date, e.WeatherIcon, e.Occasion, e.Stars)
		for _, item := range e.Items {
			fmt.Printf("  - %s\n", item)
		}
	}
}

func runMetrics(store *metrics.Store, dataDir string) {
	usage, err := store.GetEndpointUsage(7)
	if err != nil {
		log.Fatalf("Failed to load metrics: %v", err)
	}
	fmt.Println("Backend calls (7d):")
	if len(usage) == 0 {
		fmt.Println("  no data yet")
	}
	for _, u := range usage {
		fmt.Printf("  %-40s %5d calls  %4d failed  %5dms avg\n", u.Endpoint, u.Calls, u.Failures, u.AvgLatencyMS)
	}

	health := metrics.GetSysHealth(dataDir)
	fmt.Printf("\nRAM: %dMB alloc / %dMB sys, %d goroutines, data on disk: %s\n",
		health.AllocMB, health.SysMB, health.Goroutines, health.DiskUsage)
}

func printSaved(plans map[string]*planner.Entry) {
	if len(plans) == 0 {
		fmt.Println("No saved plans.")
		return
	}
	dates := make([]string, 0, len(plans))
	for d := range plans {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		entry := plans[d]
		fmt.Printf("%s  %s  %s %s\n", entry.Date, entry.Location, outfit.WeatherIcon(entry.Weather), entry.WeatherLabel())
		items := append([]outfit.Item(nil), entry.Outfit...)
		outfit.SortByRole(items)
		for _, it := range items {
			fmt.Printf("  - %s\n", it.Label())
		}
	}
}

func printEntry(entry *planner.Entry) {
	if entry == nil {
		return
	}
	switch {
	case entry.MissingWeather:
		fmt.Printf("%s: no forecast for this date; rerun with -weather %s\n", entry.Date, strings.Join(outfit.WeatherOptions, "|"))
	case entry.OutfitError != "":
		fmt.Printf("%s: generation failed: %s\n", entry.Date, entry.OutfitError)
	default:
		fmt.Printf("%s  %s %s  %s\n", entry.Date, outfit.WeatherIcon(entry.Weather), entry.WeatherLabel(), entry.Occasion)
		items := append([]outfit.Item(nil), entry.TempOutfit...)
		outfit.SortByRole(items)
		for _, it := range items {
			fmt.Printf("  - %s\n", it.Label())
		}
	}
}

func printUsage() {
	fmt.Println("Usage: planner-cli <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plans              List saved plans and refresh offline snapshots")
	fmt.Println("  plan               Generate outfits for a date or range")
	fmt.Println("  regen              Regenerate a saved date's outfit")
	fmt.Println("  delete             Delete a saved plan")
	fmt.Println("  offline            Show the last snapshotted plans without the backend")
	fmt.Println("  preview            Render the calendar or a saved day to HTML")
	fmt.Println("  wardrobe           List wardrobe items")
	fmt.Println("  accessories        List, add, or delete accessories")
	fmt.Println("  history            Show the outfit history")
	fmt.Println("  login              Check backend credentials")
	fmt.Println("  metrics            Show backend call metrics and system health")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"stolik/internal/config"
	"stolik/internal/database"
	"stolik/internal/events"
	"stolik/internal/logging"
	"stolik/internal/models"
	"stolik/internal/repository"
	"stolik/internal/service"

	"github.com/rs/zerolog"
)

// cli is an interactive front desk console over the booking services.
type cli struct {
	users       *service.UserService
	tables      *service.TableService
	bookings    *service.BookingService
	currentUser *models.User
	in          *bufio.Scanner
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	cacheTTL, err := time.ParseDuration(cfg.Booking.ScheduleCacheTTL)
	if err != nil {
		cacheTTL = 5 * time.Minute
	}
	cache := repository.NewMemoryScheduleCache(cacheTTL)

	app := &cli{
		users:    service.NewUserService(db, logger),
		tables:   service.NewTableService(db, logger),
		bookings: service.NewBookingService(db, events.NewEventBus(), cache, nil, cfg.Booking.DefaultDurationHours, logger),
		in:       bufio.NewScanner(os.Stdin),
	}
	return app.runLoop(context.Background())
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "cli").Logger()

	return cfg, &logger, closer, nil
}

func (c *cli) runLoop(ctx context.Context) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("  Restaurant table reservations")
	fmt.Println(strings.Repeat("=", 60))

	for {
		c.printMenu()
		choice := c.prompt("Choice")
		switch choice {
		case "1":
			c.showBookedTables(ctx)
		case "2":
			c.bookTable(ctx)
		case "3":
			c.signIn(ctx)
		case "4":
			c.showMyBookings(ctx)
		case "5":
			c.showStatistics(ctx)
		case "6":
			c.checkAvailability(ctx)
		case "0", "":
			fmt.Println("Bye!")
			return nil
		default:
			fmt.Println("Unknown choice, try again.")
		}
	}
}

func (c *cli) printMenu() {
	fmt.Println("\nMAIN MENU:")
	fmt.Println("1. Show booked tables")
	fmt.Println("2. Book a table")
	fmt.Println("3. Sign in / register")
	fmt.Println("4. My bookings")
	fmt.Println("5. Statistics")
	fmt.Println("6. Check table availability")
	fmt.Println("0. Exit")
	fmt.Println(strings.Repeat("-", 60))
}

func (c *cli) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !c.in.Scan() {
		return ""
	}
	return strings.TrimSpace(c.in.Text())
}

// signIn looks the phone up and registers a new customer when unknown.
func (c *cli) signIn(ctx context.Context) {
	phone := c.prompt("Phone")
	if phone == "" {
		fmt.Println("Phone cannot be empty.")
		return
	}

	user, err := c.users.GetUserByPhone(ctx, phone)
	if err == nil {
		fmt.Printf("Welcome back, %s!\n", user.Name)
		c.currentUser = user
		return
	}
	if !errors.Is(err, database.ErrUserNotFound) {
		fmt.Printf("Lookup failed: %v\n", err)
		return
	}

	fmt.Println("New customer, registering.")
	name := c.prompt("Name")
	user, err = c.users.RegisterUser(ctx, name, phone)
	if err != nil {
		fmt.Printf("Registration failed: %v\n", err)
		return
	}
	fmt.Printf("Registered: %s\n", user.Name)
	c.currentUser = user
}

func (c *cli) showBookedTables(ctx context.Context) {
	bookings, err := c.bookings.GetAllBookings(ctx)
	if err != nil {
		fmt.Printf("Failed to load bookings: %v\n", err)
		return
	}
	if len(bookings) == 0 {
		fmt.Println("No bookings yet.")
		return
	}

	byDate := make(map[string][]*models.Booking)
	for _, b := range bookings {
		key := b.BookingDate.Format(models.DateLayout)
		byDate[key] = append(byDate[key], b)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		fmt.Printf("\n%s\n%s\n", d, strings.Repeat("-", 50))
		day := byDate[d]
		sort.Slice(day, func(i, j int) bool { return day[i].BookingTime < day[j].BookingTime })
		for _, b := range day {
			fmt.Printf("  %s  table #%d  %d guests  [%s]\n",
				b.BookingTime, b.TableID, b.GuestsCount, b.Status)
		}
	}
}

func (c *cli) bookTable(ctx context.Context) {
	if c.currentUser == nil {
		fmt.Println("Sign in first (menu item 3).")
		return
	}

	date, ok := c.promptDate()
	if !ok {
		return
	}
	timeOfDay := c.prompt("Time (HH:MM)")
	if _, err := time.Parse(models.TimeLayout, timeOfDay); err != nil {
		fmt.Println("Invalid time, expected HH:MM.")
		return
	}
	guests, err := strconv.ParseInt(c.prompt("Guests"), 10, 64)
	if err != nil || guests <= 0 {
		fmt.Println("Invalid guest count.")
		return
	}

	tables, err := c.tables.GetAvailableTables(ctx, guests, "")
	if err != nil {
		fmt.Printf("Failed to load tables: %v\n", err)
		return
	}

	var free []*models.Table
	for _, t := range tables {
		available, err := c.bookings.IsSlotAvailable(ctx, t.ID, date, timeOfDay, models.DefaultDurationHours)
		if err == nil && available {
			free = append(free, t)
		}
	}
	if len(free) == 0 {
		fmt.Println("No free tables for that slot.")
		return
	}

	fmt.Println("Free tables:")
	for _, t := range free {
		fmt.Printf("  #%d  %d seats  %s\n", t.Number, t.Capacity, t.Location)
	}
	number, err := strconv.ParseInt(c.prompt("Table number"), 10, 64)
	if err != nil {
		fmt.Println("Invalid table number.")
		return
	}
	table, err := c.tables.GetTableByNumber(ctx, number)
	if err != nil {
		fmt.Printf("Table lookup failed: %v\n", err)
		return
	}

	requests := c.prompt("Special requests (optional)")

	booking, err := c.bookings.CreateBooking(ctx, service.CreateBookingRequest{
		UserID:          c.currentUser.ID,
		TableID:         table.ID,
		Date:            date,
		Time:            timeOfDay,
		GuestsCount:     guests,
		SpecialRequests: requests,
	})
	if err != nil {
		fmt.Printf("Booking failed: %v\n", err)
		return
	}
	fmt.Printf("Booked! #%d, table %d, %s %s, %d guests.\n",
		booking.ID, table.Number, booking.BookingDate.Format(models.DateLayout),
		booking.BookingTime, booking.GuestsCount)
}

func (c *cli) showMyBookings(ctx context.Context) {
	if c.currentUser == nil {
		fmt.Println("Sign in first (menu item 3).")
		return
	}

	bookings, err := c.bookings.GetBookingsByUser(ctx, c.currentUser.ID)
	if err != nil {
		fmt.Printf("Failed to load bookings: %v\n", err)
		return
	}
	if len(bookings) == 0 {
		fmt.Println("You have no bookings.")
		return
	}

	for _, b := range bookings {
		fmt.Printf("  #%d  %s %s  table %d  %d guests  [%s]\n",
			b.ID, b.BookingDate.Format(models.DateLayout), b.BookingTime,
			b.TableID, b.GuestsCount, b.Status)
	}

	idStr := c.prompt("Booking id to cancel (empty to go back)")
	if idStr == "" {
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		fmt.Println("Invalid booking id.")
		return
	}
	if _, err := c.bookings.UpdateBookingStatus(ctx, id, models.StatusCancelled); err != nil {
		fmt.Printf("Cancel failed: %v\n", err)
		return
	}
	fmt.Println("Booking cancelled.")
}

func (c *cli) showStatistics(ctx context.Context) {
	stats, err := c.bookings.GetStatistics(ctx)
	if err != nil {
		fmt.Printf("Failed to load statistics: %v\n", err)
		return
	}

	fmt.Printf("\nTotal bookings: %d\n", stats.TotalBookings)
	if len(stats.StatusBreakdown) > 0 {
		fmt.Println("By status:")
		statuses := make([]string, 0, len(stats.StatusBreakdown))
		for s := range stats.StatusBreakdown {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		for _, s := range statuses {
			fmt.Printf("  %-10s %d\n", s, stats.StatusBreakdown[s])
		}
	}
	if len(stats.TablePopularity) > 0 {
		fmt.Println("Most booked tables:")
		for _, t := range stats.TablePopularity {
			fmt.Printf("  table #%d (%s): %d\n", t.TableNumber, t.Location, t.BookingsCount)
		}
	}
}

func (c *cli) checkAvailability(ctx context.Context) {
	number, err := strconv.ParseInt(c.prompt("Table number"), 10, 64)
	if err != nil {
		fmt.Println("Invalid table number.")
		return
	}
	table, err := c.tables.GetTableByNumber(ctx, number)
	if err != nil {
		fmt.Printf("Table lookup failed: %v\n", err)
		return
	}

	date, ok := c.promptDate()
	if !ok {
		return
	}
	timeOfDay := c.prompt("Time (HH:MM)")
	if _, err := time.Parse(models.TimeLayout, timeOfDay); err != nil {
		fmt.Println("Invalid time, expected HH:MM.")
		return
	}

	conflicts, err := c.bookings.GetConflictingBookings(ctx, table.ID, date, timeOfDay, models.DefaultDurationHours)
	if err != nil {
		fmt.Printf("Availability check failed: %v\n", err)
		return
	}
	if len(conflicts) == 0 {
		fmt.Println("The slot is free.")
		return
	}
	fmt.Println("The slot is taken:")
	for _, b := range conflicts {
		fmt.Printf("  %s for %.1fh (%d guests) [%s]\n",
			b.BookingTime, b.DurationHours, b.GuestsCount, b.Status)
	}
}

func (c *cli) promptDate() (time.Time, bool) {
	raw := c.prompt("Date (YYYY-MM-DD)")
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		fmt.Println("Invalid date, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return date, true
}

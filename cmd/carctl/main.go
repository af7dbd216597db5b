package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"carrental-dashboard/internal/apiclient"
	"carrental-dashboard/internal/config"
	"carrental-dashboard/internal/logger"
	"carrental-dashboard/internal/service"
	"carrental-dashboard/internal/session"
	"carrental-dashboard/internal/utils"
)

const usage = `usage: carctl [-config path] <command> [flags]

commands:
  login     -email -password      log in and remember the session
  register  -first -last -email -password
  logout                          forget the session
  whoami                          show the logged-in user
  cars      [-brand] [-model]     list available cars
  car       <id> [-start] [-end]  show a car and quote a rental
  rent      <id> -start -end      request a rental
  list-car  -brand -model -year -cost [-description] [-image]
  requests                        list requests for your cars
  accept    <request-id> -car <car-id>
  decline   <request-id>
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "carctl:", err)
		os.Exit(1)
	}
}

type cli struct {
	api      apiclient.Client
	sessions *session.Manager
	out      io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("carctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "Path to configuration file")
	if err := global.Parse(args); err != nil || global.NArg() == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.InitializeWithWriter(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	c := &cli{
		api:      apiclient.NewClient(cfg.Backend.BaseURL),
		sessions: session.NewManager(session.NewFileStore(cfg.Session.Path)),
		out:      out,
	}
	return c.dispatch(ctx, global.Arg(0), global.Args()[1:])
}

func (c *cli) dispatch(ctx context.Context, command string, args []string) error {
	var err error
	switch command {
	case "login":
		err = c.login(ctx, args)
	case "register":
		err = c.register(ctx, args)
	case "logout":
		err = service.NewAuthService(c.api, c.sessions).Logout(ctx)
	case "whoami":
		err = c.whoami()
	case "cars":
		err = c.cars(ctx, args)
	case "car":
		err = c.car(ctx, args, false)
	case "rent":
		err = c.car(ctx, args, true)
	case "list-car":
		err = c.listCar(ctx, args)
	case "requests":
		err = c.requests(ctx)
	case "accept":
		err = c.act(ctx, args, true)
	case "decline":
		err = c.act(ctx, args, false)
	case "help", "-h", "--help":
		fmt.Fprint(c.out, usage)
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	if errors.Is(err, session.ErrNoSession) {
		return errors.New("not logged in, run carctl login")
	}
	return err
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := service.NewAuthService(c.api, c.sessions).Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Logged in as %s\n", user.DisplayName())
	return nil
}

func (c *cli) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register")
	var in service.RegisterInput
	fs.StringVar(&in.FirstName, "first", "", "first name")
	fs.StringVar(&in.LastName, "last", "", "last name")
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := service.NewAuthService(c.api, c.sessions).Register(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Account created, run carctl login")
	return nil
}

func (c *cli) whoami() error {
	user, err := c.sessions.Current()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s <%s> (id %d)\n", user.DisplayName(), user.Email, user.ID)
	return nil
}

func (c *cli) cars(ctx context.Context, args []string) error {
	if _, err := c.sessions.Current(); err != nil {
		return err
	}
	fs := newFlagSet("cars")
	brand := fs.String("brand", "", "filter by brand")
	model := fs.String("model", "", "filter by model, requires -brand")
	if err := fs.Parse(args); err != nil {
		return err
	}

	browser := service.NewCarBrowser(c.api)
	var err error
	if *brand == "" && *model == "" {
		err = browser.Refresh(ctx)
	} else if err = browser.SelectBrand(ctx, *brand); err == nil && *model != "" {
		err = browser.SelectModel(ctx, *model)
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tMODEL\tYEAR\tPER HOUR")
	for _, car := range browser.State().Cars {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", car.ID, car.Brand, car.Model, car.YearOfProduction, utils.FormatPrice(car.CostPerHour))
	}
	return tw.Flush()
}

// car shows one car with an optional quote; with submit set it also sends
// the rental request.
func (c *cli) car(ctx context.Context, args []string, submit bool) error {
	if _, err := c.sessions.Current(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("missing car id")
	}
	carID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid car id %q", args[0])
	}
	fs := newFlagSet("car")
	start := fs.String("start", "", "rental start, yyyy-mm-ddThh:mm")
	end := fs.String("end", "", "rental end, yyyy-mm-ddThh:mm")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	booking := service.NewBooking(c.api, c.sessions)
	car, err := booking.Load(ctx, carID)
	if err != nil {
		return err
	}
	if *start != "" {
		t, err := utils.ParseDateTime(*start, time.Local)
		if err != nil {
			return err
		}
		if err := booking.SetStart(t); err != nil {
			return err
		}
	}
	if *end != "" {
		t, err := utils.ParseDateTime(*end, time.Local)
		if err != nil {
			return err
		}
		booking.SetEnd(t)
	}

	fmt.Fprintf(c.out, "%s %s (%d), %s per hour\n", car.Brand, car.Model, car.YearOfProduction, utils.FormatPrice(car.CostPerHour))
	if car.Description != "" {
		fmt.Fprintln(c.out, car.Description)
	}
	if total, ok := booking.Quote(); ok {
		fmt.Fprintf(c.out, "Total price: %s\n", utils.FormatPrice(total))
	}
	if !submit {
		return nil
	}

	if _, err := booking.Submit(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Rental request sent")
	return nil
}

func (c *cli) listCar(ctx context.Context, args []string) error {
	fs := newFlagSet("list-car")
	var in service.ListingInput
	fs.StringVar(&in.Brand, "brand", "", "brand")
	fs.StringVar(&in.Model, "model", "", "model")
	fs.StringVar(&in.Year, "year", "", "year of production")
	fs.StringVar(&in.Cost, "cost", "", "cost per hour")
	fs.StringVar(&in.Description, "description", "", "description")
	imagePath := fs.String("image", "", "path to an image file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return err
		}
		defer f.Close()
		in.Image = &service.ImageUpload{Filename: filepath.Base(*imagePath), Content: f}
	}

	if _, err := service.NewListingService(c.api, c.sessions).CreateListing(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(c.out, service.ListingSuccessMessage)
	return nil
}

func (c *cli) requests(ctx context.Context) error {
	board := service.NewRequestBoard(c.api, c.sessions)
	if err := board.Load(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCAR\tCAR ID\tRENTER\tFROM\tTO\tTOTAL\tSTATUS")
	for _, r := range board.Requests() {
		fmt.Fprintf(tw, "%d\t%s %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Car.Brand, r.Car.Model, r.Car.ID, r.User.DisplayName(),
			utils.FormatDate(r.StartDate), utils.FormatDate(r.EndDate),
			utils.FormatPrice(r.TotalPrice), r.Status)
	}
	return tw.Flush()
}

// act loads the board so the local transition checks apply before calling out.
func (c *cli) act(ctx context.Context, args []string, accept bool) error {
	if len(args) == 0 {
		return errors.New("missing request id")
	}
	requestID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid request id %q", args[0])
	}
	fs := newFlagSet("accept")
	carID := fs.Int64("car", 0, "car id of the request")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	board := service.NewRequestBoard(c.api, c.sessions)
	if err := board.Load(ctx); err != nil {
		return err
	}
	if accept {
		if *carID == 0 {
			return errors.New("accept requires -car")
		}
		err = board.Accept(ctx, *carID, requestID)
	} else {
		err = board.Decline(ctx, requestID)
	}
	if err != nil {
		return err
	}

	status := "declined"
	if accept {
		status = "accepted"
	}
	fmt.Fprintf(c.out, "Request %d %s\n", requestID, status)
	return nil
}

// Command studio works with the studio records from the command line. Calls go to the studio server and fall
// back to a local mirror when the server can't be reached.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DavidGamba/go-getoptions"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bigheart-studio/studio-booking/client"
	"github.com/bigheart-studio/studio-booking/common"
	"github.com/bigheart-studio/studio-booking/gate"
	"github.com/bigheart-studio/studio-booking/mirror"
	"github.com/bigheart-studio/studio-booking/model"
)

const usage = `Commands:
  gallery [category]                      list gallery items
  gallery-add title=... url=... [description=...] [category=...]
  gallery-update <id> [title=...] [description=...] [url=...] [category=...]
  gallery-delete <id>
  upload <path>                           upload an image
  bookings                                list bookings
  book name=... email=... phone=... date=... time=... [size=...] [placement=...] [design=...] [serviceType=...]
  booking-status <id> <status>
  booking-delete <id>
  notifications                           list notifications
  read <id>                               mark a notification as read
  read-all                                mark every notification as read
  login <password>                        check the admin password
`

type commandLineOptionValues struct {
	Server        string
	Mirror        string
	AdminPassword string
	Debug         bool
}

func parseCommandLine() (*commandLineOptionValues, []string) {
	optionValues := &commandLineOptionValues{}
	opt := getoptions.New()

	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&optionValues.Server, "server", envOr("STUDIO_SERVER", "http://localhost:5000"),
		opt.Alias("s"),
		opt.Description("the base URL of the studio server"))
	opt.StringVar(&optionValues.Mirror, "mirror", envOr("STUDIO_MIRROR", defaultMirrorDir()),
		opt.Alias("m"),
		opt.Description("the directory holding the local mirror"))
	opt.StringVar(&optionValues.AdminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"),
		opt.Description("the admin password checked when the server can't be reached"))
	opt.BoolVar(&optionValues.Debug, "debug", false,
		opt.Alias("d"),
		opt.Description("enable debug logging"))

	remaining, err := opt.Parse(os.Args[1:])
	if opt.Called("help") || len(remaining) == 0 {
		fmt.Fprint(os.Stderr, opt.Help())
		fmt.Fprint(os.Stderr, usage)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}

	return optionValues, remaining
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func defaultMirrorDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".studio-mirror"
	}
	return filepath.Join(dir, "studio-booking", "mirror")
}

func main() {
	_ = godotenv.Load()
	optionValues, args := parseCommandLine()

	logrus.SetLevel(logrus.WarnLevel)
	if optionValues.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	m, err := mirror.Open(optionValues.Mirror, gate.New(optionValues.AdminPassword))
	if err != nil {
		common.Log.Fatal(err)
	}

	c := client.New(client.NewRemote(strings.TrimSuffix(optionValues.Server, "/"), nil), m)
	err = run(context.Background(), c, os.Stdout, args)
	if closeErr := m.Close(); closeErr != nil {
		common.Log.Errorf("unable to close the local mirror: %s", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// run executes a single command against the store and writes its result to out.
func run(ctx context.Context, s client.Store, out io.Writer, args []string) error {
	command, args := args[0], args[1:]

	switch command {
	case "gallery":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		return printResult(s.ListGallery(ctx, category))(out)

	case "gallery-add":
		fields, err := parseFields(args, "title", "description", "url", "category")
		if err != nil {
			return err
		}
		item := model.GalleryItem{
			Title:       fields["title"],
			Description: fields["description"],
			URL:         fields["url"],
			Category:    fields["category"],
		}
		return printResult(s.SaveGalleryItem(ctx, item))(out)

	case "gallery-update":
		id, args, err := idArg(args)
		if err != nil {
			return err
		}
		update, err := parseGalleryUpdate(args)
		if err != nil {
			return err
		}
		return printResult(s.UpdateGalleryItem(ctx, id, update))(out)

	case "gallery-delete":
		id, _, err := idArg(args)
		if err != nil {
			return err
		}
		return printResult(s.DeleteGalleryItem(ctx, id))(out)

	case "upload":
		if len(args) != 1 {
			return errors.New("upload requires the path of an image")
		}
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return printResult(s.UploadImage(ctx, filepath.Base(args[0]), content))(out)

	case "bookings":
		return printResult(s.ListBookings(ctx))(out)

	case "book":
		fields, err := parseFields(args,
			"name", "email", "phone", "date", "time", "size", "placement", "design", "serviceType")
		if err != nil {
			return err
		}
		req := model.BookingRequest{
			Name:        fields["name"],
			Email:       fields["email"],
			Phone:       fields["phone"],
			Date:        fields["date"],
			Time:        fields["time"],
			Size:        fields["size"],
			Placement:   fields["placement"],
			Design:      fields["design"],
			ServiceType: fields["serviceType"],
		}
		return printResult(s.SaveBooking(ctx, req))(out)

	case "booking-status":
		id, args, err := idArg(args)
		if err != nil {
			return err
		}
		if len(args) != 1 {
			return errors.New("booking-status requires a status")
		}
		return printResult(s.UpdateBookingStatus(ctx, id, args[0]))(out)

	case "booking-delete":
		id, _, err := idArg(args)
		if err != nil {
			return err
		}
		return printResult(s.DeleteBooking(ctx, id))(out)

	case "notifications":
		notifications, err := s.ListNotifications(ctx)
		if err != nil {
			return err
		}
		return printNotifications(out, notifications, time.Now())

	case "read":
		id, _, err := idArg(args)
		if err != nil {
			return err
		}
		return printResult(s.MarkNotificationRead(ctx, id))(out)

	case "read-all":
		if err := s.MarkAllNotificationsRead(ctx); err != nil {
			return err
		}
		return printResult(map[string]bool{"success": true}, nil)(out)

	case "login":
		if len(args) != 1 {
			return errors.New("login requires a password")
		}
		return printResult(s.AdminLogin(ctx, args[0]))(out)

	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// printResult returns a function that writes the result as indented JSON, or returns the error if there is one.
func printResult(result interface{}, err error) func(io.Writer) error {
	return func(out io.Writer) error {
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
}

func printNotifications(out io.Writer, notifications []model.Notification, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, n := range notifications {
		marker := "*"
		if n.Read {
			marker = " "
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", marker, n.ID, n.Title, n.Message, common.TimeAgo(n.CreatedAt, now))
	}
	return w.Flush()
}

func idArg(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, errors.New("an id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, args[1:], nil
}

// parseFields parses key=value arguments, accepting only the given keys.
func parseFields(args []string, allowed ...string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		if !contains(allowed, key) {
			return nil, fmt.Errorf("unknown field %q", key)
		}
		fields[key] = value
	}
	return fields, nil
}

func parseGalleryUpdate(args []string) (model.GalleryUpdate, error) {
	var update model.GalleryUpdate
	fields, err := parseFields(args, "title", "description", "url", "category")
	if err != nil {
		return update, err
	}
	for key, value := range fields {
		value := value
		switch key {
		case "title":
			update.Title = &value
		case "description":
			update.Description = &value
		case "url":
			update.URL = &value
		case "category":
			update.Category = &value
		}
	}
	return update, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

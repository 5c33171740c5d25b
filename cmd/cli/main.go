package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	infraeventbus "github.com/amirasaad/urbanbank/infra/eventbus"
	"github.com/amirasaad/urbanbank/infra/initializer"
	"github.com/amirasaad/urbanbank/pkg/app"
	"github.com/amirasaad/urbanbank/pkg/config"
	"github.com/amirasaad/urbanbank/pkg/domain/events"
	"github.com/amirasaad/urbanbank/pkg/domain/money"
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/amirasaad/urbanbank/pkg/eventbus"
	"github.com/amirasaad/urbanbank/pkg/utils"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const usage = `Usage: cli <command> [arguments]
Commands:
  seed [--joined YYYY-MM-DD]  create the demo customers with hashed passwords
  users                       list customers and balances
  passwd <username>           set a customer's password
  messages                    list contact form submissions
  review                      follow flagged transfers published to Kafka`

var (
	errUsage = errors.New(usage)
	green    = color.New(color.FgGreen).SprintFunc()
	warn     = color.New(color.FgYellow).SprintFunc()
	bold     = color.New(color.Bold).SprintFunc()
)

// cli bundles what the commands need so tests can drive them without a
// terminal.
type cli struct {
	app          *app.App
	consumer     eventConsumer
	out          io.Writer
	readPassword func() (string, error)
	hash         func(string) (string, error)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		return
	}

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	logger := initializer.SetupLogger(cfg.Log, os.Stderr)
	deps, cleanup, err := initializer.InitializeWithLogger(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Failed to initialize: %v", err))
		os.Exit(1)
	}
	defer cleanup() //nolint: errcheck

	c := &cli{
		app:          app.New(deps, cfg),
		out:          os.Stdout,
		readPassword: readTerminalPassword,
		hash:         utils.HashPassword,
	}
	if k := cfg.Events.Kafka; k != nil && len(k.Brokers) > 0 {
		consumer := infraeventbus.NewKafkaConsumer(k.Brokers, k.Topic, k.GroupID, logger)
		defer consumer.Close() //nolint: errcheck
		c.consumer = consumer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := c.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		os.Exit(1)
	}
}

// eventConsumer is satisfied by *eventbus.KafkaConsumer.
type eventConsumer interface {
	Consume(ctx context.Context, handler eventbus.HandlerFunc) error
}

func readTerminalPassword() (string, error) {
	fmt.Fprint(os.Stderr, "New password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "seed":
		return c.seed(ctx, args[1:])
	case "users":
		return c.users(ctx)
	case "passwd":
		if len(args) != 2 {
			return errUsage
		}
		return c.passwd(ctx, args[1])
	case "messages":
		return c.messages(ctx)
	case "review":
		return c.review(ctx)
	default:
		return errUsage
	}
}

func (c *cli) seed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(c.out)
	joined := fs.String("joined", "", "join date stamped on every seeded customer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var dateJoined time.Time
	if *joined != "" {
		d, err := user.ParseDate(*joined)
		if err != nil {
			return fmt.Errorf("invalid --joined date %q", *joined)
		}
		dateJoined = d
	}

	for _, s := range seedUsers {
		hash, err := c.hash(s.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.Username, err)
		}
		u := s.domain(hash)
		u.DateJoined = dateJoined
		if err := c.app.Deps.Users.Upsert(ctx, u); err != nil {
			return fmt.Errorf("save %s: %w", s.Username, err)
		}
		fmt.Fprintf(c.out, "%s %s\n", green("✔"), s.Username)
	}
	fmt.Fprintln(c.out, green(fmt.Sprintf("Seeded %d users with hashed passwords", len(seedUsers))))
	return nil
}

func (c *cli) users(ctx context.Context) error {
	users, err := c.app.Deps.Users.List(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(c.out, warn("No users. Run `cli seed` first."))
		return nil
	}
	for _, u := range users {
		joined := "-"
		if u.HasJoinDate() {
			joined = u.DateJoined.Format(user.DateLayout)
		}
		credential := green("hashed")
		if !utils.IsHashed(u.Password) {
			credential = warn("plaintext")
		}
		fmt.Fprintf(c.out, "%-18s %-32s %12s  %s  joined %s\n",
			bold(u.Username), u.FullName, u.AccountNumber, money.FormatUSD(u.Balance), joined)
		fmt.Fprintf(c.out, "%-18s password %s\n", "", credential)
	}
	return nil
}

func (c *cli) passwd(ctx context.Context, username string) error {
	password, err := c.readPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if password == "" {
		return errors.New("password must not be empty")
	}
	if err := c.app.AuthService.SetPassword(ctx, username, password); err != nil {
		return err
	}
	slog.Info("Password updated", "username", username)
	fmt.Fprintln(c.out, green("Password updated for "+username))
	return nil
}

func (c *cli) messages(ctx context.Context) error {
	msgs, err := c.app.ContactService.List(ctx)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Fprintln(c.out, warn("No messages."))
		return nil
	}
	for _, m := range msgs {
		fmt.Fprintf(c.out, "%s  %s <%s>\n  %s\n",
			m.Timestamp.Format("2006-01-02 15:04:05"), bold(m.Name), m.Email, m.Message)
	}
	return nil
}

func (c *cli) review(ctx context.Context) error {
	if c.consumer == nil {
		return errors.New("review needs EVENTS_KAFKA_BROKERS to be set")
	}
	fmt.Fprintln(c.out, bold("Waiting for flagged transfers (Ctrl-C to stop)"))
	return c.consumer.Consume(ctx, func(ctx context.Context, e eventbus.Event) error {
		flagged, ok := e.(events.TransferFlagged)
		if !ok {
			return nil
		}
		held := "not held"
		if flagged.HeldBy != "" {
			held = "held by " + flagged.HeldBy
		}
		fmt.Fprintf(c.out, "%s  %s  %s -> %q  %s  (%s)\n",
			flagged.OccurredAt.Local().Format("2006-01-02 15:04:05"),
			warn("FLAGGED"),
			bold(flagged.From),
			flagged.Payee,
			money.FormatUSD(flagged.Amount),
			held,
		)
		return nil
	})
}

// Command client is a small terminal front end for the taskpulse server. It
// drives the same sync engine the interactive UI uses, so every mutation is
// optimistic with rollback on failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"taskpulse/internal/client/api"
	"taskpulse/internal/client/sync"
)

const usage = `usage: client [flags] <command> [args]

commands:
  register <email> <password>
  login <email> <password>
  forgot <email>
  reset <token> <new-password>
  me
  mood [<mood> <energy>]
  list
  add <title> <minutes> [energy]
  toggle <task-id>
  undo <task-id>
  rm <task-id>
  suggest <prompt...>

flags:
`

func main() {
	fs := flag.NewFlagSet("client", flag.ExitOnError)
	server := fs.String("server", envOr("TASKPULSE_SERVER", "http://localhost:3000"), "server base URL")
	token := fs.String("token", os.Getenv("TASKPULSE_TOKEN"), "session token (or TASKPULSE_TOKEN)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	client := api.NewClient(*server)
	client.SetToken(*token)

	notifier := sync.NotifierFunc(func(msg string) {
		fmt.Println(msg)
	})
	engine := sync.NewEngine(client, notifier)

	ctx := context.Background()
	if err := run(ctx, client, engine, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *api.Client, engine *sync.Engine, command string, args []string) error {
	switch command {
	case "register":
		if len(args) != 2 {
			return fmt.Errorf("register <email> <password>")
		}
		u, err := client.Register(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s), now log in\n", u.Email, u.ID)
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login <email> <password>")
		}
		token, err := client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("export TASKPULSE_TOKEN=%s\n", token)
		return nil

	case "forgot":
		if len(args) != 1 {
			return fmt.Errorf("forgot <email>")
		}
		if err := client.ForgotPassword(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("reset email sent")
		return nil

	case "reset":
		if len(args) != 2 {
			return fmt.Errorf("reset <token> <new-password>")
		}
		if err := client.ResetPassword(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("password updated, log in again")
		return nil

	case "me":
		u, err := client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s  mood=%s energy=%s\n", u.Email, u.Mood, u.Energy)
		return nil

	case "mood":
		if len(args) == 0 {
			mood, energy, err := client.Mood(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("mood=%s energy=%s\n", mood, energy)
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("mood [<mood> <energy>]")
		}
		return client.SetMood(ctx, args[0], args[1])

	case "list":
		if err := engine.Refresh(ctx); err != nil {
			return err
		}
		printTasks(engine)
		return nil

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("add <title> <minutes> [energy]")
		}
		minutes, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("minutes: %w", err)
		}
		req := api.CreateTaskRequest{Title: args[0], Duration: &minutes}
		if len(args) > 2 {
			req.Energy = args[2]
		}
		_, err = engine.Create(ctx, req)
		return err

	case "toggle", "undo", "rm":
		if len(args) != 1 {
			return fmt.Errorf("%s <task-id>", command)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		if err := engine.Refresh(ctx); err != nil {
			return err
		}
		switch command {
		case "toggle":
			err = engine.Toggle(ctx, id)
		case "undo":
			err = engine.Undo(ctx, id)
		case "rm":
			err = engine.Delete(ctx, id)
		}
		if err != nil {
			return err
		}
		printTasks(engine)
		return nil

	case "suggest":
		if err := engine.Refresh(ctx); err != nil {
			return err
		}
		suggestions, err := client.Suggest(ctx, strings.Join(args, " "), engine.Tasks())
		if err != nil {
			return err
		}
		for _, s := range suggestions {
			fmt.Println("-", s)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printTasks(engine *sync.Engine) {
	tasks := engine.Tasks()
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	for _, t := range tasks {
		fmt.Printf("%4d  %-12s %4dm %-6s  %s\n", t.ID, t.Status, t.Duration, t.Energy, t.Title)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

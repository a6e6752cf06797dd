// The dashboard is the terminal front end of the student evaluation portal:
// it restores the stored session, shows one tab at a time, and turns typed
// commands into controller actions.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evalportal/internal/api"
	"evalportal/internal/app"
	"evalportal/internal/avatar"
	"evalportal/internal/config"
	"evalportal/internal/session"
	"evalportal/internal/view"
)

func main() {
	initialTab := flag.String("tab", "", "initial tab name or dashboard deep link (e.g. dashboard?tab=complaints)")
	flag.Parse()

	cfg := config.Load()

	store, err := openSessionStore(cfg)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	if cfg.MetricsPort != "" {
		go func() {
			addr := ":" + cfg.MetricsPort
			log.Printf("metrics listening at %s", addr)
			if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
				log.Printf("metrics listener stopped: %v", err)
			}
		}()
	}

	client := api.New(cfg.APIBaseURL, store, cfg.RequestTimeout)

	var uploader view.AvatarUploader
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploader = avatar.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("avatar hosting configured:", cfg.CloudinaryCloudName)
	}

	term := newTermRenderer(os.Stdout)
	dash := app.New(cfg, store, client, term, uploader)

	quit := make(chan struct{})
	var quitOnce func()
	quitOnce = func() {
		select {
		case <-quit:
		default:
			close(quit)
		}
	}
	dash.OnLoginRedirect = func() {
		fmt.Printf("Redirecting to %s — run the dashboard again after logging in.\n", cfg.LoginURL)
		quitOnce()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		quitOnce()
		cancel()
	}()

	if err := dash.Start(ctx, *initialTab); err != nil {
		if errors.Is(err, app.ErrNotLoggedIn) {
			fmt.Println("Not logged in. Use: login <student_id> <password>")
		} else {
			log.Fatalf("start failed: %v", err)
		}
	}

	runLoop(ctx, dash, term, quit, quitOnce, *initialTab)
	fmt.Println("Goodbye.")
}

func openSessionStore(cfg config.App) (session.Store, error) {
	if cfg.SessionBackend == "redis" {
		return session.NewRedisStore(cfg.RedisAddr, ""), nil
	}
	return session.NewFileStore(cfg.SessionFile)
}

func runLoop(ctx context.Context, dash *app.App, term *termRenderer, quit chan struct{}, quitOnce func(), initialTab string) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println(`Commands: pending | profile | completed | complaints | faculty | refresh | details <n> | close |
  edit <field> <value> | commit <field> | save | avatar <path> | complain <type> [course] -- <details> |
  request <course> [faculty] -- <details> | login <id> <password> | logout | quit`)

	for {
		select {
		case <-quit:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if done := handleCommand(ctx, dash, term, initialTab, strings.TrimSpace(line)); done {
				quitOnce()
				return
			}
		}
	}
}

func handleCommand(ctx context.Context, dash *app.App, term *termRenderer, initialTab, line string) bool {
	if line == "" {
		return false
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true

	case "pending", "profile", "completed", "complaints", "faculty":
		if err := dash.ShowTab(ctx, cmd); err != nil {
			fmt.Println(err)
		}

	case "refresh":
		if err := dash.ShowTab(ctx, string(dash.State().Active())); err != nil {
			fmt.Println(err)
		}

	case "login":
		if len(args) != 2 {
			fmt.Println("usage: login <student_id> <password>")
			return false
		}
		if err := dash.Login(ctx, args[0], args[1]); err != nil {
			fmt.Println("Login failed:", err)
			return false
		}
		if err := dash.Start(ctx, initialTab); err != nil {
			fmt.Println(err)
		}

	case "logout":
		if err := dash.Logout(ctx); err != nil {
			fmt.Println(err)
		}
		fmt.Println("Logged out.")
		return true

	case "details":
		if len(args) != 1 {
			fmt.Println("usage: details <n>")
			return false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("usage: details <n>")
			return false
		}
		if err := dash.Completed().ShowDetails(ctx, n-1); err != nil {
			fmt.Println(err)
		}

	case "close":
		dash.Completed().CloseDetails()

	case "edit":
		if len(args) < 1 {
			fmt.Println("usage: edit <field> [value]")
			return false
		}
		field := args[0]
		if err := dash.Profile().BeginEdit(field); err != nil {
			fmt.Println(err)
			return false
		}
		if len(args) > 1 {
			if err := dash.Profile().SetInput(field, strings.Join(args[1:], " ")); err != nil {
				fmt.Println(err)
			}
		}

	case "commit":
		if len(args) != 1 {
			fmt.Println("usage: commit <field>")
			return false
		}
		if err := dash.Profile().Commit(ctx, args[0]); err != nil {
			fmt.Println(err)
		}

	case "save":
		if err := dash.Profile().CommitAll(ctx); err != nil {
			fmt.Println(err)
		}

	case "avatar":
		if len(args) != 1 {
			fmt.Println("usage: avatar <path>")
			return false
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			return false
		}
		if err := dash.Profile().SetAvatar(ctx, data, args[0]); err != nil {
			fmt.Println(err)
		}

	case "complain":
		issueType, courseCode, details, err := parseSubmission(args, "complain <type> [course] -- <details>")
		if err != nil {
			fmt.Println(err)
			return false
		}
		dash.Complaints().SetForm(courseCode, issueType, details)
		if err := dash.Complaints().Submit(ctx); err != nil {
			fmt.Println(err)
		}

	case "request":
		courseName, facultyName, details, err := parseSubmission(args, "request <course> [faculty] -- <details>")
		if err != nil {
			fmt.Println(err)
			return false
		}
		if err := dash.Faculty().Submit(ctx, courseName, facultyName, details); err != nil {
			fmt.Println(err)
		}

	default:
		fmt.Printf("unknown command %q\n", cmd)
	}
	return false
}

// parseSubmission splits "first [second] -- free text" argument lists.
func parseSubmission(args []string, usage string) (first, second, details string, err error) {
	sep := -1
	for i, a := range args {
		if a == "--" {
			sep = i
			break
		}
	}
	if sep < 1 || sep == len(args)-1 {
		return "", "", "", fmt.Errorf("usage: %s", usage)
	}
	head := args[:sep]
	first = head[0]
	if len(head) > 1 {
		second = strings.Join(head[1:], " ")
	}
	details = strings.Join(args[sep+1:], " ")
	return first, second, details, nil
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/campus/internal/adapter"
	"github.com/mmcdole/campus/internal/api"
	"github.com/mmcdole/campus/internal/auth"
	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/service"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/store"
	"github.com/mmcdole/campus/internal/tui"
	"github.com/mmcdole/campus/internal/view"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `usage: campus [flags] [command]

commands:
  (none)   start the terminal UI
  login    sign in and remember the session
  logout   forget the remembered session
  signup   register a new account
  top      list the most enrolled courses
  reset    forget the saved API URL

admin commands:
  courses add [flags]          add a course (-title -body -image -price -instructor -instructor-id)
  courses edit <id> [flags]    change a course, same flags as add
  feedback list                list every review
  feedback edit <id> [flags]   change a review (-rating -comments)
  feedback delete <id>         remove a review
  enrollments                  list every enrollment
  instructor <id>              show an instructor profile with ratings and counts
`

func main() {
	// Handle version flag
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("campus %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting campus", "version", Version)

	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	if command == "reset" {
		if err := adapter.ClearAPIConfig(); err != nil {
			return err
		}
		fmt.Println("API URL cleared. Run campus again to set it.")
		return nil
	}

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	switch command {
	case "":
		return app.runTUI(ctx, cfg)
	case "login":
		return app.runLogin(ctx)
	case "logout":
		app.holder.Logout()
		fmt.Println("Signed out.")
		return nil
	case "signup":
		return app.runSignup(ctx)
	case "top":
		return app.runTop(ctx)
	case "courses", "feedback", "enrollments", "instructor":
		return app.runAdmin(ctx, command, args[1:])
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// app holds the wired services shared by every command
type app struct {
	logger *slog.Logger
	tokens *store.TokenStore
	store  *state.Store
	holder *auth.Holder
	notes  chan domain.Notification

	courses     *service.CourseService
	feedback    *service.FeedbackService
	instructors *service.InstructorService
	users       *service.UserService
	ratings     *view.RatingMemo
	membership  *view.MembershipChecker
	launcher    *adapter.Launcher
}

func newApp(ctx context.Context, cfg *adapter.Config, logger *slog.Logger) (*app, error) {
	tokens, err := store.NewTokenStore(cfg.Storage.TokenFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	client := api.NewClient(cfg.API.URL, tokens, cfg.API.Timeout, logger)
	appStore := state.NewStore(logger)

	holder := auth.NewHolder(client, tokens, appStore, logger)
	client.OnUnauthorized(holder.Logout)
	holder.Initialize()

	// Follow logins and logouts made by other campus processes
	if changes, err := tokens.Watch(ctx); err != nil {
		logger.Warn("failed to watch token file", "error", err)
	} else {
		go holder.Watch(ctx, changes)
	}

	notes := make(chan domain.Notification, 16)
	notifier := adapter.FanoutNotifier{
		tui.NewChannelNotifier(notes),
		adapter.NewLogNotifier(logger),
	}

	courseSvc := service.NewCourseService(client, holder, notifier, logger)
	courseSvc.SetSnapshot(appStore)
	appStore.Use(state.CourseEffects(courseSvc, logger)...)
	go courseSvc.WatchSession(ctx, holder.Subscribe(ctx))

	feedbackSvc := service.NewFeedbackService(client, logger)

	return &app{
		logger:      logger,
		tokens:      tokens,
		store:       appStore,
		holder:      holder,
		notes:       notes,
		courses:     courseSvc,
		feedback:    feedbackSvc,
		instructors: service.NewInstructorService(client, cfg.API.URL, logger),
		users:       service.NewUserService(client, logger),
		ratings:     view.NewRatingMemo(feedbackSvc, notifier, logger),
		membership:  view.NewMembershipChecker(courseSvc, logger),
		launcher:    adapter.NewLauncher(cfg.UI.Browser, cfg.UI.BrowserArgs, logger),
	}, nil
}

// Close releases the store and the token file
func (a *app) Close() {
	a.store.Close()
	if err := a.tokens.Close(); err != nil {
		a.logger.Error("failed to close token store", "error", err)
	}
}

func (a *app) runTUI(ctx context.Context, cfg *adapter.Config) error {
	model := tui.NewModel(
		tui.Services{
			Auth:        a.holder,
			Store:       a.store,
			Cache:       a.courses,
			Feedback:    a.feedback,
			Instructors: a.instructors,
			Users:       a.users,
			Links:       a.launcher,
			Ratings:     a.ratings,
			Membership:  a.membership,
		},
		tui.Subscriptions{
			State: a.store.Subscribe(ctx),
			Auth:  a.holder.Subscribe(ctx),
			Notes: a.notes,
		},
		tui.Options{
			Server:   cfg.API.URL,
			PageSize: cfg.UI.PageSize,
			Sort:     view.CourseSort(cfg.UI.DefaultSort),
		},
	)

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

func (a *app) runLogin(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	username, err := prompt(reader, "Username: ")
	if err != nil {
		return err
	}
	password, err := promptPassword(reader, "Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := a.holder.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %s", domain.Message(err, "Login failed"))
	}
	fmt.Printf("✓ Signed in as %s\n", username)
	return nil
}

func (a *app) runSignup(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)

	var req domain.SignupRequest
	var err error
	if req.Name, err = prompt(reader, "Name: "); err != nil {
		return err
	}
	if req.Email, err = prompt(reader, "Email: "); err != nil {
		return err
	}
	if req.Username, err = prompt(reader, "Username: "); err != nil {
		return err
	}
	if req.Password, err = promptPassword(reader, "Password: "); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if free, err := a.holder.CheckUsername(ctx, req.Username); err == nil && !free {
		return fmt.Errorf("username %q is taken", req.Username)
	}
	if free, err := a.holder.CheckEmail(ctx, req.Email); err == nil && !free {
		return fmt.Errorf("email %q is already registered", req.Email)
	}

	msg, err := a.holder.Signup(ctx, req)
	if err != nil {
		return fmt.Errorf("signup failed: %s", domain.Message(err, "Signup failed"))
	}
	if msg == "" {
		msg = "Account created"
	}
	fmt.Printf("✓ %s. Run 'campus login' to sign in.\n", msg)
	return nil
}

func (a *app) runTop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	courses, err := a.courses.GetCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to load courses: %s", domain.Message(err, "Failed to load courses"))
	}
	titles := make(map[int64]string, len(courses))
	for _, c := range courses {
		titles[c.CourseID()] = c.Title
	}

	top := a.courses.GetHighestEnrolledCourses(ctx)
	if len(top) == 0 {
		fmt.Println("No enrollments yet.")
		return nil
	}
	for i, h := range top {
		title, ok := titles[h.CourseID]
		if !ok {
			title = fmt.Sprintf("course #%d", h.CourseID)
		}
		fmt.Printf("%2d. %-40s %d\n", i+1, title, h.Count)
	}
	return nil
}

func (a *app) runAdmin(ctx context.Context, command string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	c := &commands{
		out:         os.Stdout,
		store:       a.store,
		catalog:     a.courses,
		feedback:    a.feedback,
		users:       a.users,
		instructors: a.instructors,
	}
	switch command {
	case "courses":
		return c.courses(ctx, args)
	case "feedback":
		return c.feedbackCmd(ctx, args)
	case "enrollments":
		return c.enrollments(ctx)
	default:
		return c.instructor(ctx, args)
	}
}

// runSetupFlow asks for the backend URL on first run
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to campus!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		url, err := prompt(reader, "Enter the course API URL (e.g., http://localhost:8080): ")
		if err != nil {
			return err
		}
		if url == "" {
			fmt.Println("API URL cannot be empty. Please try again.")
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			fmt.Println("API URL must start with http:// or https://. Please try again.")
			continue
		}
		cfg.API.URL = strings.TrimSuffix(url, "/")
		break
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptPassword reads without echo when stdin is a terminal
func promptPassword(reader *bufio.Reader, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(reader, label)
	}

	fmt.Print(label)
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// Package main is the entry point for the helena-identity admin CLI.
// It provides administrative commands for bootstrapping the first
// super-admin and managing users and posts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/prn-tf/helena-identity/internal/auth"
	"github.com/prn-tf/helena-identity/internal/cache/memory"
	rediscache "github.com/prn-tf/helena-identity/internal/cache/redis"
	"github.com/prn-tf/helena-identity/internal/config"
	"github.com/prn-tf/helena-identity/internal/domain"
	"github.com/prn-tf/helena-identity/internal/metrics"
	"github.com/prn-tf/helena-identity/internal/repository"
	"github.com/prn-tf/helena-identity/internal/repository/postgres"
	"github.com/prn-tf/helena-identity/internal/repository/sqlite"
	"github.com/prn-tf/helena-identity/internal/service"
	"github.com/prn-tf/helena-identity/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	ctx := context.Background()

	var err error
	switch command {
	case "version":
		fmt.Printf("Helena Identity Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "bootstrap":
		err = runBootstrap(ctx, os.Args[2:])

	case "user":
		err = runUser(ctx, os.Args[2:])

	case "post":
		err = runPost(ctx, os.Args[2:])

	case "status":
		err = runStatus(ctx, os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Helena Identity Admin CLI

Usage:
  helena-admin <command> [arguments]

Commands:
  bootstrap   Create the first super-admin account
  user        Manage users (create, list, get)
  post        Manage posts (create, list)
  status      Check database connectivity
  version     Print version information
  help        Show this help message

Examples:
  helena-admin bootstrap --name "Ana Souza" --email ana@example.com \
      --document 52998224725 --phone 11987654321 --password <secret>
  helena-admin user create --creator-id <uuid> --name "João Lima" ...
  helena-admin user list
  helena-admin post create --author-id <uuid> --title "Olá" --status DRAFT

All commands read configuration from --config, ./config.yaml, or
HELENA_-prefixed environment variables.`)
}

// app bundles the wired dependencies behind the CLI commands.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	db    repository.DatabaseHealth
	users *service.UserService
	posts *service.PostService

	userRepo repository.UserRepository
	hasher   domain.PasswordHasher

	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	// Metrics use a private registry so repeated CLI runs in tests never
	// trip duplicate registration.
	m := metrics.New(prometheus.NewRegistry())

	// Database and repositories
	factory := repository.NewFactory(cfg.Database, logger)
	var repos repository.Repositories
	switch factory.Driver() {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.db = db
		repos.User = sqlite.NewUserRepository(db)
		repos.Post = sqlite.NewPostRepository(db)
	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		a.db = db
		repos.User = postgres.NewUserRepository(db)
		repos.Post = postgres.NewPostRepository(db)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	// Optional read-through cache for user lookups
	if cfg.Cache.Enabled {
		var cache repository.Cache
		if cfg.Redis.Enabled {
			redisCache, err := rediscache.NewCache(ctx, cfg.Redis, logger)
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, redisCache.Close)
			cache = redisCache
		} else {
			memCache := memory.NewCache()
			a.closers = append(a.closers, memCache.Close)
			cache = memCache
		}
		repos.User = repository.NewCachedUserRepository(repos.User, cache, cfg.Cache.TTL, m, logger)
	}

	// Image store
	var images storage.ImageStore
	switch cfg.Storage.Backend {
	case "filesystem":
		images, err = storage.NewFilesystemStore(cfg.Storage.DataDir, logger)
	case "s3":
		images, err = storage.NewS3Store(ctx, cfg.Storage.S3, logger)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, err
	}

	a.userRepo = repos.User
	a.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	a.users = service.NewUserService(repos.User, a.hasher, m, logger)
	a.posts = service.NewPostService(repos.Post, repos.User, images, m, logger)

	return a, nil
}

func newLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out *os.File = os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}
	logger := zerolog.New(out)
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

// runBootstrap creates the first super-admin directly through the
// repository. Every later user needs an existing creator, so the very first
// account cannot go through the service layer.
func runBootstrap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	document := fs.String("document", "", "CPF or CNPJ")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "Brazilian phone number")
	password := fs.String("password", "", "plain-text password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	doc, err := domain.NewDocument(*document)
	if err != nil {
		return err
	}
	personName, err := domain.NewPersonName(*name)
	if err != nil {
		return err
	}
	mail, err := domain.NewEmail(*email)
	if err != nil {
		return err
	}
	phoneNumber, err := domain.NewPhoneNumber(*phone)
	if err != nil {
		return err
	}
	pass, err := domain.NewPassword(*password, a.hasher)
	if err != nil {
		return err
	}
	id, err := domain.NewIdentifier()
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user := &domain.User{
		ID:           id,
		Document:     doc,
		Name:         personName,
		Email:        mail,
		Phone:        phoneNumber,
		Password:     pass,
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
		Admin:        true,
		SuperAdmin:   true,
	}

	createdID, err := a.userRepo.Create(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to create super-admin: %w", err)
	}

	fmt.Printf("Super-admin created: %s\n", createdID)
	return nil
}

func runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	fmt.Printf("Driver:   %s\n", a.cfg.Database.Driver)
	fmt.Printf("Embedded: %t\n", a.cfg.Database.IsEmbedded())
	fmt.Printf("Storage:  %s\n", a.cfg.Storage.Backend)
	fmt.Println("Database: ok")
	return nil
}

func runUser(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: helena-admin user <create|list|get> [flags]")
	}

	switch args[0] {
	case "create":
		return runUserCreate(ctx, args[1:])
	case "list":
		return runUserList(ctx, args[1:])
	case "get":
		return runUserGet(ctx, args[1:])
	default:
		return fmt.Errorf("unknown user subcommand %q", args[0])
	}
}

func runUserCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user create", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	creatorID := fs.String("creator-id", "", "identifier of the creating admin")
	document := fs.String("document", "", "CPF or CNPJ")
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "Brazilian phone number")
	password := fs.String("password", "", "plain-text password")
	admin := fs.Bool("admin", false, "grant admin role")
	superAdmin := fs.Bool("super-admin", false, "grant super-admin role (requires a super-admin creator)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.users.Create(ctx, service.CreateUserInput{
		CreatorID:  *creatorID,
		Document:   *document,
		Name:       *name,
		Email:      *email,
		Phone:      *phone,
		Password:   *password,
		Admin:      *admin,
		SuperAdmin: *superAdmin,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User created: %s\n", out.ID)
	return nil
}

func runUserList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		role := "user"
		switch {
		case u.SuperAdmin:
			role = "super-admin"
		case u.Admin:
			role = "admin"
		}
		fmt.Printf("%s  %-12s  %s  %s\n", u.ID, role, u.Email, u.Name)
	}
	fmt.Printf("%d user(s)\n", len(users))
	return nil
}

func runUserGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user get", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	id := fs.String("id", "", "user identifier")
	email := fs.String("email", "", "user email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*id == "") == (*email == "") {
		return fmt.Errorf("exactly one of --id or --email is required")
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	var user *domain.User
	if *id != "" {
		user, err = a.users.GetByID(ctx, *id)
	} else {
		user, err = a.users.GetByEmail(ctx, *email)
	}
	if err != nil {
		return err
	}

	fmt.Printf("ID:          %s\n", user.ID)
	fmt.Printf("Name:        %s\n", user.Name)
	fmt.Printf("Email:       %s\n", user.Email)
	fmt.Printf("Phone:       %s\n", user.Phone.Formatted())
	fmt.Printf("Document:    %s\n", user.Document.Formatted())
	fmt.Printf("Admin:       %t\n", user.Admin)
	fmt.Printf("Super-admin: %t\n", user.SuperAdmin)
	fmt.Printf("Created:     %s\n", user.CreatedAtUTC)
	fmt.Printf("Updated:     %s\n", user.UpdatedAtUTC)
	if user.LastAccessedAtUTC != "" {
		fmt.Printf("Last access: %s\n", user.LastAccessedAtUTC)
	}
	return nil
}

func runPost(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: helena-admin post <create|list> [flags]")
	}

	switch args[0] {
	case "create":
		return runPostCreate(ctx, args[1:])
	case "list":
		return runPostList(ctx, args[1:])
	default:
		return fmt.Errorf("unknown post subcommand %q", args[0])
	}
}

func runPostCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post create", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	authorID := fs.String("author-id", "", "identifier of the post author")
	title := fs.String("title", "", "post title")
	link := fs.String("link", "", "optional external link")
	description := fs.String("description", "", "short description")
	body := fs.String("body", "", "post body content")
	status := fs.String("status", "DRAFT", "post status (DRAFT, PENDING, PUBLISHED)")
	imagePath := fs.String("image", "", "optional path to an image file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	input := service.CreatePostInput{
		AuthorID:    *authorID,
		Title:       *title,
		Link:        *link,
		Description: *description,
		BodyContent: *body,
		Status:      *status,
	}
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		input.Image = f
	}

	out, err := a.posts.Create(ctx, input)
	if err != nil {
		return err
	}

	fmt.Printf("Post created: %s\n", out.ID)
	if out.ImageRef != "" {
		fmt.Printf("Image ref:    %s\n", out.ImageRef)
	}
	return nil
}

func runPostList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	userID := fs.String("user-id", "", "identifier of the post owner")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(ctx, *configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	posts, err := a.posts.ListByUser(ctx, *userID)
	if err != nil {
		return err
	}

	for _, p := range posts {
		fmt.Printf("%s  %-9s  %s\n", p.ID, p.Status, p.Title)
	}
	fmt.Printf("%d post(s)\n", len(posts))
	return nil
}

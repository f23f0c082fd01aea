package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/restolist/backend/internal/client"
	"github.com/restolist/backend/internal/client/session"
	"github.com/restolist/backend/internal/config"
	"github.com/restolist/backend/internal/logger"
	"github.com/restolist/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App holds the CLI dependencies and the interactive loop state
type App struct {
	api    *client.Client
	store  *session.Store
	gate   *session.Gate
	reader *bufio.Scanner
	logger *zap.Logger
}

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init("error"); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	store, err := session.Open(cfg.Client.SessionPath, logger.Logger)
	if err != nil {
		log.Fatalf("Failed to open session store: %v\n", err)
	}
	defer store.Close()

	app := &App{
		api:    client.New(cfg.Client.APIBaseURL),
		store:  store,
		gate:   session.NewGate(store, logger.Logger),
		reader: bufio.NewScanner(os.Stdin),
		logger: logger.Logger,
	}

	app.Run(context.Background())
}

// Run starts the interactive command loop
func (a *App) Run(ctx context.Context) {
	fmt.Println("RestoList client. Type 'help' to list commands.")

	for {
		fmt.Print("> ")
		if !a.reader.Scan() {
			return
		}
		cmd := strings.TrimSpace(a.reader.Text())

		switch cmd {
		case "":
			continue
		case "help":
			a.printHelp()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "whoami":
			a.whoami(ctx)
		case "list":
			a.list(ctx)
		case "get":
			a.get(ctx)
		case "add":
			a.add(ctx)
		case "update":
			a.update(ctx)
		case "delete":
			a.delete(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help' to list commands.\n", cmd)
		}
	}
}

func (a *App) printHelp() {
	fmt.Println(`Commands:
  register  create a new account
  login     sign in and store the session
  logout    clear the stored session
  whoami    show the signed-in user (requires a session)
  list      list all restaurants
  get       show one restaurant by id
  add       create a restaurant (requires moderator role)
  update    change a restaurant (requires moderator role)
  delete    remove a restaurant (requires moderator role)
  exit      quit`)
}

// checkAccess runs the gate for a protected command and reports whether the
// command may proceed. On denial it prints the redirect destination the way
// the web client would navigate.
func (a *App) checkAccess(ctx context.Context, requiredRole string) bool {
	decision := a.gate.Check(ctx, requiredRole)
	switch decision.Status {
	case session.StatusAuthorized:
		return true
	default:
		if decision.Redirect == session.RedirectDashboard {
			fmt.Println("Access denied: your account lacks the required role.")
		} else {
			fmt.Println("Please log in first.")
		}
		return false
	}
}

func (a *App) register(ctx context.Context) {
	req := &models.RegisterRequest{
		Username: a.prompt("Username: "),
		Name:     a.prompt("Name: "),
		Email:    a.prompt("Email: "),
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}
	req.Password = password

	if err := a.api.SignUp(ctx, req); err != nil {
		a.printAPIError(err)
		return
	}
	fmt.Println("Registered. You can now log in.")
}

func (a *App) login(ctx context.Context) {
	username := a.prompt("Username: ")
	password, err := a.promptPassword("Password: ")
	if err != nil {
		fmt.Printf("Failed to read password: %v\n", err)
		return
	}

	resp, err := a.api.SignIn(ctx, username, password)
	if err != nil {
		a.printAPIError(err)
		return
	}

	user := &session.User{
		Username:    resp.UserInfo.Username,
		Name:        resp.UserInfo.Name,
		Email:       resp.UserInfo.Email,
		Authorities: resp.Authorities,
	}
	if err := a.store.Save(ctx, resp.Token, user); err != nil {
		fmt.Printf("Logged in, but failed to persist session: %v\n", err)
	}
	a.gate.SetSession(&session.Session{Token: resp.Token, User: user})

	fmt.Printf("Welcome, %s.\n", user.Name)
}

func (a *App) logout(ctx context.Context) {
	if _, err := a.gate.Logout(ctx); err != nil {
		fmt.Printf("Failed to clear session: %v\n", err)
		return
	}
	fmt.Println("Logged out.")
}

func (a *App) whoami(ctx context.Context) {
	decision := a.gate.Check(ctx, "")
	if decision.Status != session.StatusAuthorized {
		fmt.Println("Please log in first.")
		return
	}
	sess := decision.Session

	// Confirm the token is still accepted by the server
	me, err := a.api.Me(ctx, sess.Token)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			fmt.Println("Your session has expired. Please log in again.")
			a.gate.Logout(ctx)
			return
		}
		a.printAPIError(err)
		return
	}

	fmt.Printf("Username: %s\nName: %s\nEmail: %s\nAuthorities: %s\n",
		me.UserInfo.Username, me.UserInfo.Name, me.UserInfo.Email,
		strings.Join(me.Authorities, ", "))
}

func (a *App) list(ctx context.Context) {
	restaurants, err := a.api.ListRestaurants(ctx)
	if err != nil {
		a.printAPIError(err)
		return
	}
	if len(restaurants) == 0 {
		fmt.Println("No restaurants yet.")
		return
	}
	for _, r := range restaurants {
		fmt.Printf("%4d  %-30s %s\n", r.ID, r.Title, r.Type)
	}
}

func (a *App) get(ctx context.Context) {
	id, ok := a.promptID()
	if !ok {
		return
	}
	r, err := a.api.GetRestaurant(ctx, id)
	if err != nil {
		a.printAPIError(err)
		return
	}
	fmt.Printf("ID: %d\nTitle: %s\nType: %s\nImage: %s\n", r.ID, r.Title, r.Type, r.ImageURL)
}

func (a *App) add(ctx context.Context) {
	if !a.checkAccess(ctx, models.RoleNameModerator) {
		return
	}
	req := &models.RestaurantRequest{
		Title:    a.prompt("Title: "),
		Type:     a.prompt("Type: "),
		ImageURL: a.prompt("Image URL: "),
	}
	r, err := a.api.CreateRestaurant(ctx, req)
	if err != nil {
		a.printAPIError(err)
		return
	}
	fmt.Printf("Created restaurant %d.\n", r.ID)
}

func (a *App) update(ctx context.Context) {
	if !a.checkAccess(ctx, models.RoleNameModerator) {
		return
	}
	id, ok := a.promptID()
	if !ok {
		return
	}
	fmt.Println("Leave a field empty to keep its current value.")
	req := &models.RestaurantRequest{
		Title:    a.prompt("Title: "),
		Type:     a.prompt("Type: "),
		ImageURL: a.prompt("Image URL: "),
	}
	if err := a.api.UpdateRestaurant(ctx, id, req); err != nil {
		a.printAPIError(err)
		return
	}
	fmt.Println("Updated.")
}

func (a *App) delete(ctx context.Context) {
	if !a.checkAccess(ctx, models.RoleNameModerator) {
		return
	}
	id, ok := a.promptID()
	if !ok {
		return
	}
	if err := a.api.DeleteRestaurant(ctx, id); err != nil {
		a.printAPIError(err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *App) prompt(label string) string {
	fmt.Print(label)
	if !a.reader.Scan() {
		return ""
	}
	return strings.TrimSpace(a.reader.Text())
}

func (a *App) promptPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *App) promptID() (int, bool) {
	raw := a.prompt("Restaurant ID: ")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		fmt.Println("Invalid id.")
		return 0, false
	}
	return id, true
}

func (a *App) printAPIError(err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		fmt.Printf("Error: %s\n", apiErr.Message)
	case errors.Is(err, client.ErrUnavailable):
		fmt.Println("Cannot reach the server. Check that it is running and try again.")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

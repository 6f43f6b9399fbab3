package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/platinummonkey/backoffice/pkg/observability"
	"github.com/platinummonkey/backoffice/pkg/platform"
	"github.com/platinummonkey/backoffice/pkg/session"
)

var clilog = logrus.New()

// defaultCredentialsFile is shared with a gateway running in file storage mode
func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "credentials.json"
	}
	return filepath.Join(home, ".backoffice", "credentials.json")
}

// cliSession bundles the store and client every session command needs
type cliSession struct {
	store  *session.Store
	client *platform.Client
}

func openSession(apiURL, credFile string) (*cliSession, error) {
	if err := os.MkdirAll(filepath.Dir(credFile), 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	storage, err := session.NewFileStorage(credFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open credentials file: %w", err)
	}

	logger := observability.NewLogger(observability.ErrorLevel, os.Stderr)
	store := session.NewStore(storage, logger)
	store.Load(context.Background())

	client := platform.NewClient(platform.ClientConfig{
		BaseURL: apiURL,
		Timeout: 30 * time.Second,
		Token:   func() string { return store.Snapshot().AccessToken },
		Tenant:  func() string { return store.Snapshot().TenantID },
	}, logger, nil)

	return &cliSession{store: store, client: client}, nil
}

func newLoginCommand() *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Sign in and persist credentials",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
		Run:         runLogin,
	}

	cmd.Flags.String("api", "http://localhost:3000/api", "Platform API URL")
	cmd.Flags.String("credentials-file", defaultCredentialsFile(), "Credentials file path")
	cmd.Flags.String("email", "", "Account email")

	return cmd
}

func runLogin(args []string) error {
	cmd := newLoginCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	apiURL := cmd.Flags.Lookup("api").Value.String()
	credFile := cmd.Flags.Lookup("credentials-file").Value.String()
	email := cmd.Flags.Lookup("email").Value.String()

	if email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		return fmt.Errorf("password is required")
	}

	sess, err := openSession(apiURL, credFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pair, err := sess.client.Login(ctx, platform.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %s", platform.UserMessage(err))
	}

	sess.store.SetAccessToken(ctx, pair.Token)
	sess.store.SetRefreshToken(ctx, pair.RefreshToken)

	identity, err := sess.client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %s", platform.UserMessage(err))
	}

	clilog.WithFields(logrus.Fields{
		"email": identity.Email,
		"file":  credFile,
	}).Info("Logged in")
	return nil
}

func newLogoutCommand() *Command {
	cmd := &Command{
		Name:        "logout",
		Description: "Discard persisted credentials",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
		Run:         runLogout,
	}

	cmd.Flags.String("api", "http://localhost:3000/api", "Platform API URL")
	cmd.Flags.String("credentials-file", defaultCredentialsFile(), "Credentials file path")

	return cmd
}

func runLogout(args []string) error {
	cmd := newLogoutCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	apiURL := cmd.Flags.Lookup("api").Value.String()
	credFile := cmd.Flags.Lookup("credentials-file").Value.String()

	sess, err := openSession(apiURL, credFile)
	if err != nil {
		return err
	}

	sess.store.Clear(context.Background())
	clilog.Info("Logged out")
	return nil
}

func newWhoamiCommand() *Command {
	cmd := &Command{
		Name:        "whoami",
		Description: "Show the signed-in identity",
		Flags:       flag.NewFlagSet("whoami", flag.ExitOnError),
		Run:         runWhoami,
	}

	cmd.Flags.String("api", "http://localhost:3000/api", "Platform API URL")
	cmd.Flags.String("credentials-file", defaultCredentialsFile(), "Credentials file path")

	return cmd
}

func runWhoami(args []string) error {
	cmd := newWhoamiCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	apiURL := cmd.Flags.Lookup("api").Value.String()
	credFile := cmd.Flags.Lookup("credentials-file").Value.String()

	sess, err := openSession(apiURL, credFile)
	if err != nil {
		return err
	}

	snap := sess.store.Snapshot()
	if snap.AccessToken == "" {
		return fmt.Errorf("not logged in")
	}

	identity, err := sess.client.CurrentUser(context.Background())
	if err != nil {
		if platform.IsAuthFailure(err) {
			return fmt.Errorf("session expired, run login again")
		}
		return fmt.Errorf("failed to resolve identity: %s", platform.UserMessage(err))
	}

	fmt.Printf("%s <%s>\n", identity.FullName, identity.Email)
	if len(identity.Roles) > 0 {
		fmt.Printf("Roles: %s\n", strings.Join(identity.Roles, ", "))
	}
	if snap.TenantID != "" {
		fmt.Printf("Tenant: %s\n", snap.TenantID)
	}
	return nil
}

func newTenantCommand() *Command {
	cmd := &Command{
		Name:        "tenant",
		Description: "Show or switch the active tenant",
		Flags:       flag.NewFlagSet("tenant", flag.ExitOnError),
		Run:         runTenant,
	}

	cmd.Flags.String("api", "http://localhost:3000/api", "Platform API URL")
	cmd.Flags.String("credentials-file", defaultCredentialsFile(), "Credentials file path")
	cmd.Flags.String("set", "", "Tenant identifier to switch to")

	return cmd
}

func runTenant(args []string) error {
	cmd := newTenantCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	apiURL := cmd.Flags.Lookup("api").Value.String()
	credFile := cmd.Flags.Lookup("credentials-file").Value.String()
	tenantID := cmd.Flags.Lookup("set").Value.String()

	sess, err := openSession(apiURL, credFile)
	if err != nil {
		return err
	}

	if tenantID == "" {
		snap := sess.store.Snapshot()
		if snap.TenantID == "" {
			fmt.Println("No active tenant")
		} else {
			fmt.Println(snap.TenantID)
		}
		return nil
	}

	sess.store.SetTenantID(context.Background(), tenantID)
	clilog.WithField("tenant", tenantID).Info("Tenant switched")
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hub-go/internal/app"
	"hub-go/internal/config"
	"hub-go/internal/encryption"
	"hub-go/internal/hub"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and environment and creates an App. The caller
// must defer a.Close().
func newApp(ctx context.Context) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	env, err := config.ParseEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	a, err := app.NewApp(ctx, cfg, env)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Intranet dashboard server",
}

// serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(ctx)
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Listen Addr: %s\n", cfg.ListenAddr)
		fmt.Printf("Blob Store:  %s\n", cfg.Blob.Type)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Listen Addr: %s\n", cfg.ListenAddr)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Blob Store:  %s (key %s)\n", cfg.Blob.Type, cfg.Blob.Key)
		fmt.Printf("Encryption:  %v\n", cfg.Encryption.Enabled)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate an age key pair for at-rest encryption",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		enc := encryption.NewAgeEncryptor(cfg.Encryption.RecipientPath, cfg.Encryption.IdentityPath)
		if err := enc.Setup(); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Recipient written to %s\n", cfg.Encryption.RecipientPath)
		fmt.Printf("Identity written to  %s\n", cfg.Encryption.IdentityPath)
		return nil
	},
}

// items command
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage dashboard items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dashboard items",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		items := a.Items().List(ctx)
		if len(items) == 0 {
			fmt.Println("No items.")
			return nil
		}
		for _, it := range items {
			subtitle := ""
			if it.Subtitle != "" {
				subtitle = "  " + it.Subtitle
			}
			fmt.Printf("%s  %-20s  %s%s\n", it.ID, it.Title, it.Link, subtitle)
		}
		return nil
	},
}

var itemsAddCmd = &cobra.Command{
	Use:   "add TITLE LINK",
	Short: "Add a dashboard item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subtitle, _ := cmd.Flags().GetString("subtitle")
		image, _ := cmd.Flags().GetString("image")

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.Items().Create(ctx, hub.ItemInput{
			Title:    args[0],
			Link:     args[1],
			Subtitle: subtitle,
			Image:    image,
		})
		if err != nil {
			return fmt.Errorf("adding item: %w", err)
		}

		fmt.Printf("Added item %s\n", item.ID)
		return nil
	},
}

var itemsRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a dashboard item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Items().Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("removing item: %w", err)
		}

		fmt.Printf("Removed item %s\n", args[0])
		return nil
	},
}

// token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a session token from a password prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprint(os.Stderr, "Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}

		tier, err := a.Auth().Authenticate(string(password))
		if err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}

		token, err := a.Sessions().Issue(tier)
		if err != nil {
			return fmt.Errorf("issuing token: %w", err)
		}

		fmt.Printf("Level: %s\n", tier)
		fmt.Println(token)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	keysCmd.AddCommand(keysInitCmd)

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsAddCmd)
	itemsAddCmd.Flags().String("subtitle", "", "Optional subtitle")
	itemsAddCmd.Flags().String("image", "", "Optional image URL")
	itemsCmd.AddCommand(itemsRmCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(tokenCmd)
}

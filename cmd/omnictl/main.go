// omnictl is the operator CLI for the ordering platform: tenant
// provisioning, demo session management, and menu administration against a
// running backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"omniorder/internal/api"
	"omniorder/internal/config"
	"omniorder/internal/models"
)

const usage = `usage: omnictl [--api URL] [--token TOKEN] <command> [args]

commands:
  provision        create a new tenant
  demo-session     generate an ephemeral demo session
  reset-demo       restore the demo tenant to its seeded state
  contact          submit a contact/lead form
  categories       list | create | delete | reorder
  items            list | create | update | delete | reorder
  settings         get | set
  upload           upload a media asset
`

func main() {
	global := flag.NewFlagSet("omnictl", flag.ExitOnError)
	apiURL := global.String("api", "", "backend base URL (overrides config and OMNI_API_URL)")
	token := global.String("token", "", "bearer token for admin calls")
	configPath := global.StringP("config", "c", "", "path to config file")
	global.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	// Flags before the subcommand only.
	args := os.Args[1:]
	split := len(args)
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			split = i
			break
		}
	}
	if err := global.Parse(args[:split]); err != nil {
		fatal(err)
	}
	rest := args[split:]
	if len(rest) == 0 {
		global.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	client := api.NewClient(cfg.APIURL)
	if *token == "" {
		*token = os.Getenv("OMNI_TOKEN")
	}
	tok := *token
	client.SetTokenSource(func() string { return tok })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch rest[0] {
	case "provision":
		err = runProvision(ctx, client, rest[1:])
	case "demo-session":
		err = runDemoSession(ctx, client)
	case "reset-demo":
		err = client.ResetDemo(ctx)
	case "contact":
		err = runContact(ctx, client, rest[1:])
	case "categories":
		err = runCategories(ctx, client, rest[1:])
	case "items":
		err = runItems(ctx, client, rest[1:])
	case "settings":
		err = runSettings(ctx, client, rest[1:])
	case "upload":
		err = runUpload(ctx, client, rest[1:])
	default:
		fmt.Fprintf(os.Stderr, "omnictl: unknown command %q\n\n%s", rest[0], usage)
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "omnictl: %v\n", err)
	os.Exit(1)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runProvision(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("provision", flag.ExitOnError)
	name := fs.String("name", "", "store name (required)")
	domain := fs.String("domain", "", "store domain (required)")
	color := fs.String("primary-color", "", "brand primary color")
	font := fs.String("font", "", "brand font family")
	seed := fs.Bool("seed", false, "seed starter menu data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *domain == "" {
		return fmt.Errorf("provision: --name and --domain are required")
	}

	resp, err := client.Provision(ctx, api.ProvisionRequest{
		Name:         *name,
		Domain:       *domain,
		PrimaryColor: *color,
		FontFamily:   *font,
		SeedData:     *seed,
	})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runDemoSession(ctx context.Context, client *api.Client) error {
	session, err := client.GenerateDemoSession(ctx)
	if err != nil {
		return err
	}
	return printJSON(session)
}

func runContact(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ExitOnError)
	name := fs.String("name", "", "contact name (required)")
	email := fs.String("email", "", "contact email (required)")
	message := fs.String("message", "", "message body")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("contact: --name and --email are required")
	}
	return client.Contact(ctx, api.ContactRequest{Name: *name, Email: *email, Message: *message})
}

func runCategories(ctx context.Context, client *api.Client, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		cats, err := client.ListCategories(ctx)
		if err != nil {
			return err
		}
		return printJSON(cats)
	case "create":
		fs := flag.NewFlagSet("categories create", flag.ExitOnError)
		name := fs.String("name", "", "category name (required)")
		rank := fs.Int("rank", 0, "display rank")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("categories create: --name is required")
		}
		cat, err := client.CreateCategory(ctx, api.CategoryRequest{Name: *name, Rank: *rank})
		if err != nil {
			return err
		}
		return printJSON(cat)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("categories delete: id is required")
		}
		return client.DeleteCategory(ctx, args[1])
	case "reorder":
		if len(args) < 2 {
			return fmt.Errorf("categories reorder: at least one id is required")
		}
		return client.ReorderCategories(ctx, args[1:])
	default:
		return fmt.Errorf("categories: unknown subcommand %q", args[0])
	}
}

func runItems(ctx context.Context, client *api.Client, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items, err := client.ListItems(ctx)
		if err != nil {
			return err
		}
		return printJSON(items)
	case "create", "update":
		fs := flag.NewFlagSet("items "+args[0], flag.ExitOnError)
		name := fs.String("name", "", "item name (required)")
		desc := fs.String("description", "", "item description")
		price := fs.Int64("price", 0, "price in minor currency units")
		image := fs.String("image", "", "image URL")
		category := fs.String("category", "", "category id")
		available := fs.Bool("available", true, "item is orderable")
		modifiers := fs.String("modifiers", "", "modifier groups as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("items %s: --name is required", args[0])
		}

		req := api.ItemRequest{
			Name:        *name,
			Description: *desc,
			Price:       *price,
			ImageURL:    *image,
			IsAvailable: *available,
			CategoryID:  *category,
		}
		if *modifiers != "" {
			var groups []models.ModifierGroup
			if err := json.Unmarshal([]byte(*modifiers), &groups); err != nil {
				return fmt.Errorf("items %s: --modifiers: %w", args[0], err)
			}
			req.ModifierGroups = groups
		}

		if args[0] == "create" {
			item, err := client.CreateItem(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(item)
		}
		positional := fs.Args()
		if len(positional) == 0 {
			return fmt.Errorf("items update: id is required")
		}
		item, err := client.UpdateItem(ctx, positional[0], req)
		if err != nil {
			return err
		}
		return printJSON(item)
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("items delete: id is required")
		}
		return client.DeleteItem(ctx, args[1])
	case "reorder":
		if len(args) < 2 {
			return fmt.Errorf("items reorder: at least one id is required")
		}
		return client.ReorderItems(ctx, args[1:])
	default:
		return fmt.Errorf("items: unknown subcommand %q", args[0])
	}
}

func runSettings(ctx context.Context, client *api.Client, args []string) error {
	if len(args) == 0 {
		args = []string{"get"}
	}
	switch args[0] {
	case "get":
		cfg, err := client.GetSettings(ctx)
		if err != nil {
			return err
		}
		return printJSON(cfg)
	case "set":
		fs := flag.NewFlagSet("settings set", flag.ExitOnError)
		name := fs.String("name", "", "store name (required)")
		preset := fs.String("preset", "", "theme preset")
		color := fs.String("primary-color", "", "brand primary color")
		font := fs.String("font", "", "brand font family")
		currency := fs.String("currency", "", "currency code")
		address := fs.String("address", "", "street address")
		phone := fs.String("phone", "", "phone number")
		hours := fs.String("hours", "", "opening hours")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" {
			return fmt.Errorf("settings set: --name is required")
		}
		return client.UpdateSettings(ctx, models.TenantConfig{
			Name:         *name,
			Preset:       *preset,
			PrimaryColor: *color,
			FontFamily:   *font,
			Currency:     *currency,
			Address:      *address,
			Phone:        *phone,
			Hours:        *hours,
		})
	default:
		return fmt.Errorf("settings: unknown subcommand %q", args[0])
	}
}

func runUpload(ctx context.Context, client *api.Client, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("upload: a file path is required")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := client.UploadMedia(ctx, f.Name(), f)
	if err != nil {
		return err
	}
	return printJSON(resp)
}

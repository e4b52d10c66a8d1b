package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/jkeller/invoicegen/internal/batch"
	"github.com/jkeller/invoicegen/internal/billing"
	"github.com/jkeller/invoicegen/internal/catalog"
	"github.com/jkeller/invoicegen/internal/config"
	"github.com/jkeller/invoicegen/internal/interactive"
	"github.com/jkeller/invoicegen/internal/ledger"
	"github.com/jkeller/invoicegen/internal/output"
	"github.com/jkeller/invoicegen/internal/render"
	"github.com/jkeller/invoicegen/pkg/database"
	"github.com/jkeller/invoicegen/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// A .env file can override config values; absence is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "invoicegen",
		Usage: "generate invoice documents from billing data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "configs/config.yaml",
				Usage: "path to the configuration file",
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "build a single invoice from console prompts",
			},
			&cli.BoolFlag{
				Name:  "pdf",
				Usage: "also render each invoice as PDF",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("interactive") {
				return runInteractive(c)
			}
			return cli.ShowAppHelp(c)
		},
		Commands: []*cli.Command{
			batchCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicegen: %v\n", err)
		os.Exit(1)
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "generate invoices for every client column of a batch CSV",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "clients", Required: true, Usage: "client catalog (.csv or .xlsx)"},
			&cli.PathFlag{Name: "items", Required: true, Usage: "item catalog (.csv or .xlsx)"},
			&cli.PathFlag{Name: "batch", Required: true, Usage: "batch assignment table (.csv)"},
			&cli.StringFlag{Name: "name", Required: true, Usage: "issuer brand name"},
			&cli.StringFlag{Name: "acc", Required: true, Usage: "issuer account name"},
			&cli.StringFlag{Name: "bank", Required: true, Usage: "issuer bank"},
			&cli.StringFlag{Name: "email", Required: true, Usage: "issuer email address"},
			&cli.Int64Flag{Name: "phone", Required: true, Usage: "issuer phone, 10 digits"},
			&cli.StringFlag{Name: "terms", Usage: "terms and conditions text"},
			&cli.PathFlag{Name: "terms-file", Usage: "plain-text file holding the terms"},
			&cli.Int64Flag{Name: "offset", Usage: "invoice numbering offset"},
			&cli.Float64Flag{Name: "tax", Value: billing.DefaultTaxPercent, Usage: "tax percentage (0-100)"},
			&cli.StringFlag{Name: "policy", Value: "fail-fast", Usage: "error policy: fail-fast or collect"},
		},
		Action: runBatch,
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recently issued invoices from the ledger",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 10, Usage: "maximum invoices to list"},
		},
		Action: runHistory,
	}
}

// env is the wired application: configuration, logger and the collaborators
// every mode shares.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *database.DB
	ledger    *ledger.Repository
	run       *billing.Run
	populator *render.Populator
	writer    *output.Writer
}

func buildEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		run:    billing.NewRun(),
	}

	if cfg.Ledger.Path != "" {
		db, err := database.New(database.Config{Path: cfg.Ledger.Path}, logger)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, err
		}
		e.db = db
		e.ledger = ledger.NewRepository(db, logger)

		// Continue numbering where the last run stopped.
		max, err := e.ledger.MaxNumber()
		if err != nil {
			db.Close()
			return nil, err
		}
		e.run.Sequence().Seed(max)
	}

	e.populator, err = render.Load(cfg.Resources.Template, cfg.Resources.Stylesheet, logger)
	if err != nil {
		e.close()
		return nil, err
	}
	e.writer = output.NewWriter(cfg.Output.Dir, output.NewWKRenderer(logger), logger)

	return e, nil
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
	_ = e.logger.Sync()
}

func runBatch(c *cli.Context) error {
	if c.IsSet("terms") == c.IsSet("terms-file") {
		return fmt.Errorf("exactly one of --terms and --terms-file is required")
	}

	policy := batch.FailFast
	switch c.String("policy") {
	case "fail-fast":
	case "collect":
		policy = batch.CollectAll
	default:
		return fmt.Errorf("unknown policy %q", c.String("policy"))
	}

	e, err := buildEnv(c)
	if err != nil {
		return err
	}
	defer e.close()

	issuer, err := billing.NewIssuer(
		c.String("name"),
		c.String("acc"),
		c.String("bank"),
		c.String("email"),
		c.Int64("phone"),
	)
	if err != nil {
		return err
	}
	e.run.SetIssuer(issuer)

	if c.IsSet("terms") {
		e.run.SetTerms(c.String("terms"))
	} else if err := e.run.SetTermsFromFile(c.Path("terms-file")); err != nil {
		return err
	}

	store := catalog.NewStore(e.logger)
	if err := store.LoadItemsFile(c.Path("items")); err != nil {
		return err
	}
	if err := store.LoadClientsFile(c.Path("clients")); err != nil {
		return err
	}

	// Flags win over config file defaults.
	tax := e.cfg.Invoice.TaxPercent
	if c.IsSet("tax") {
		tax = c.Float64("tax")
	}
	offset := e.cfg.Invoice.Offset
	if c.IsSet("offset") {
		offset = c.Int64("offset")
	}

	reconciler := batch.NewReconciler(store, e.run, e.populator, e.writer, e.ledger, batch.Config{
		Policy:     policy,
		Offset:     offset,
		TaxPercent: tax,
		PDF:        c.Bool("pdf"),
	}, e.logger)

	invoices, err := reconciler.RunFile(c.Path("batch"))
	if err != nil {
		return err
	}

	e.logger.Info("Batch complete",
		zap.Int("invoices", len(invoices)),
		zap.String("output_dir", e.cfg.Output.Dir))
	return nil
}

func runHistory(c *cli.Context) error {
	e, err := buildEnv(c)
	if err != nil {
		return err
	}
	defer e.close()

	if e.ledger == nil {
		return fmt.Errorf("ledger is disabled: set ledger.path in the configuration")
	}

	records, err := e.ledger.History(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No invoices recorded yet.")
		return nil
	}
	for _, rec := range records {
		fmt.Println(formatRecord(rec))
	}
	return nil
}

// formatRecord renders one ledger row as a console line.
func formatRecord(rec *ledger.Record) string {
	line := fmt.Sprintf("#%d  %s  total %s  due %s  %s",
		rec.Number, rec.Client, rec.GrandTotal, rec.Due.Format("2006-01-02"), rec.HTMLPath)
	if rec.PDF {
		line += "  +pdf"
	}
	return line
}

func runInteractive(c *cli.Context) error {
	e, err := buildEnv(c)
	if err != nil {
		return err
	}
	defer e.close()

	session := interactive.NewSession(os.Stdin, os.Stdout, e.logger)
	inv, err := session.BuildInvoice(e.run)
	if err != nil {
		return err
	}

	html, err := e.populator.Populate(inv, e.run)
	if err != nil {
		return err
	}
	htmlPath, err := e.writer.Write(html, inv.ID, c.Bool("pdf"))
	if err != nil {
		return err
	}

	if e.ledger != nil {
		err := e.ledger.Save(&ledger.Record{
			Number:     inv.ID,
			Client:     inv.Client.Name,
			Subtotal:   render.FormatPrice(inv.Subtotal()),
			Tax:        render.FormatPrice(inv.Tax()),
			GrandTotal: render.FormatPrice(inv.GrandTotal()),
			Due:        inv.Due,
			IssuedAt:   time.Now().UTC(),
			HTMLPath:   htmlPath,
			PDF:        c.Bool("pdf"),
		})
		if err != nil {
			return err
		}
	}

	fmt.Printf("Invoice %d written to %s\n", inv.ID, htmlPath)
	return nil
}

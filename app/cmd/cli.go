package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/configs"
	"github.com/Rakhulsr/go-catalog-admin/app/db/seeders"
	"github.com/Rakhulsr/go-catalog-admin/app/handlers/admin"
	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/models/migrations"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"github.com/Rakhulsr/go-catalog-admin/app/routes"
	"github.com/Rakhulsr/go-catalog-admin/app/services"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/changelist"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/i18n"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/renderer"
	"github.com/Rakhulsr/go-catalog-admin/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func RunCli(env configs.ENV) {
	cmd := &cli.Command{
		Name:  "catalog-admin",
		Usage: "Catalog administration panel",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the admin HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Fill the catalog with fake categories, products and reviews",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "categories", Value: 5, Usage: "number of categories"},
					&cli.IntFlag{Name: "products", Value: 50, Usage: "number of products"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := migratedDB(env)
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(ctx, db, int(c.Int("categories")), int(c.Int("products"))); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: ".env.keys", Usage: "file the keys are written to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(c.String("output")); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
			{
				Name:      "export-products",
				Usage:     "Write every product to a CSV file",
				ArgsUsage: "[file]",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					name := c.Args().First()
					if name == "" {
						name = services.ExportFilename(models.Now())
					}
					return exportProducts(ctx, db, name)
				},
			},
			{
				Name:      "import-products",
				Usage:     "Create or update products from a CSV file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "encoding", Value: "utf-8", Usage: "input file encoding"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("import-products: missing file argument")
					}
					db, err := migratedDB(env)
					if err != nil {
						return err
					}
					return importProducts(ctx, db, name, c.String("encoding"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func migratedDB(env configs.ENV) (*gorm.DB, error) {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return nil, err
	}
	if err := migrations.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func exportProducts(ctx context.Context, db *gorm.DB, name string) error {
	cfg := changelist.Config[models.Product]{Ordering: "-id"}
	products, err := repositories.NewProductRepository(db).All(ctx, cfg.Query(cfg.Parse(nil)))
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()
	if err := services.WriteProductsCSV(f, products); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	log.Printf("✅ Exported %d products to %s", len(products), name)
	return nil
}

func importProducts(ctx context.Context, db *gorm.DB, name, encoding string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	rows, err := services.ParseProductsCSV(f, encoding)
	if err != nil {
		return err
	}
	result, err := repositories.NewProductRepository(db).Import(ctx, rows)
	if err != nil {
		return fmt.Errorf("import rolled back: %w", err)
	}
	log.Printf("✅ Import finished: %d created, %d updated", result.Created, result.Updated)
	return nil
}

// Serve wires the admin and blocks serving HTTP.
func Serve(env configs.ENV) error {
	db, err := configs.OpenConnection(env)
	if err != nil {
		return fmt.Errorf("DB connection failed: %w", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.SessionKeysOrEphemeral(env)
	if err != nil {
		return err
	}
	store := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	storage := services.NewLocalStorage(env.MediaRoot, env.MediaURL, env.DefaultImage)

	h := admin.NewAdminHandler(
		renderer.New(),
		helpers.NewValidator(),
		repositories.NewProductRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewReviewRepository(db),
		storage,
		store,
		i18n.New(env.AdminLanguage),
		env.Site,
	)

	protect := csrf.Protect(keys.AuthKey[:32],
		csrf.Secure(env.IsProduction()),
		csrf.Path("/"),
		csrf.FieldName("csrfmiddlewaretoken"),
	)
	handler := routes.Wrap(routes.NewRouter(h), env.IsProduction(), protect)

	server := http.Server{
		Addr:              env.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	return server.ListenAndServe()
}

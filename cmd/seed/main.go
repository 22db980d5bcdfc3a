// seed tareas de operación sobre la base del almoxarifado.
//
// Uso:
//
//	go run ./cmd/seed migrate
//	go run ./cmd/seed admin -usuario admin -senha segredo123
//	go run ./cmd/seed import-produtos [-charset latin1] produtos.csv
//
// Lee la misma configuración que la API (.env, variables de entorno).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/usecase"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almoxerife-api/internal/infrastructure/storage"
	"github.com/jhoicas/almoxerife-api/pkg/config"
	"github.com/jhoicas/almoxerife-api/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "uso: seed <migrate|admin|import-produtos> [opciones]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(ctx, pool, log)
	case "admin":
		err = runAdmin(ctx, pool, log, os.Args[2:])
	case "import-produtos":
		err = runImport(ctx, pool, cfg, log, os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", os.Args[1]).Msg("seed falló")
	}
}

func runMigrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	log.Info().Strs("aplicadas", applied).Msg("migraciones al día")
	return nil
}

func runAdmin(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	username := fs.String("usuario", "admin", "nombre de usuario")
	password := fs.String("senha", "", "contraseña (mínimo 6 caracteres)")
	_ = fs.Parse(args)

	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	u, err := uc.Create(ctx, dto.CreateUserRequest{Username: *username, Password: *password, Role: entity.RoleAdmin})
	if errors.Is(err, domain.ErrDuplicate) {
		log.Info().Str("usuario", *username).Msg("el administrador ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Int64("id", u.ID).Str("usuario", u.Username).Msg("administrador creado")
	return nil
}

func runImport(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("import-produtos", flag.ExitOnError)
	charset := fs.String("charset", "utf8", "codificación del CSV: utf8, latin1 o windows1252")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("falta la ruta del CSV")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := readProducts(f, *charset)
	if err != nil {
		return err
	}

	uc := usecase.NewProductUseCase(
		postgres.NewProductRepository(pool),
		postgres.NewIssueRepository(pool),
		postgres.NewReceiptRepository(pool),
		storage.NewOSInvoiceStore(cfg.Storage.UploadDir),
	)
	var created, skipped int
	for _, in := range rows {
		_, err := uc.Create(ctx, in)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		case err != nil:
			return fmt.Errorf("producto %q: %w", in.Name, err)
		default:
			created++
		}
	}
	log.Info().Int("creados", created).Int("omitidos", skipped).Msg("importación de produtos terminada")
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/growthdb/internal/logger"
	"github.com/localnerve/growthdb/internal/testhelpers"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "postgres", "database container: postgres or mariadb")
	var withAuthorizer bool
	flag.BoolVar(&withAuthorizer, "authorizer", false, "also start an Authorizer container")
	flag.Parse()

	usage := `
Start a growthdb database (and optionally an Authorizer) in containers and print
the environment that points the server at them. Ctrl-C terminates the containers.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db postgres|mariadb] [-authorizer]

example
  testcontainers -db mariadb -authorizer
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	log := logger.New("growthdb-testcontainers", "info", "console")

	if envFilename != "" {
		log.Info().Str("file", envFilename).Msg("loading environment variables")
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatal().Err(err).Msg("failed to load environment variables")
		}
	}

	ctx := context.Background()
	if !testhelpers.DockerAvailable(ctx) {
		log.Fatal().Msg("docker daemon is not reachable")
	}

	stack, err := testhelpers.CreateStack(ctx, nil, testhelpers.StackOptions{
		DBType:         dbType,
		WithAuthorizer: withAuthorizer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create containers")
	}

	cfg := stack.Config
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\nAUTH_MODE=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword, cfg.AuthMode)
	if withAuthorizer {
		fmt.Printf("AUTHZ_URL=%s\nAUTHZ_CLIENT_ID=%s\n", cfg.AuthzURL, cfg.AuthzClientID)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("terminating containers")
	stack.Terminate(nil)
}

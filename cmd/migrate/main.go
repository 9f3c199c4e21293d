package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"

	"agrostock/config"
	"agrostock/internal/pkg/database"
)

func main() {
	// LoadConfig já lê o .env (quando existir) antes das variáveis de ambiente
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("goose: falha ao carregar configurações: %v\n", err)
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "diretório com os arquivos de migração")
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.PoolConfig{PingTimeout: cfg.DBTimeout})
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao banco: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o banco: %v\n", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: dialeto inválido: %v\n", err)
	}
	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s: sucesso\n", command)
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickyhof/RowDB"
	"github.com/nickyhof/RowDB/config"
	"github.com/nickyhof/RowDB/core"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	configFile := flag.String("config", config.DefaultFile, "TOML configuration file")
	port := flag.Int("port", 0, "TCP port to listen on (overrides config)")
	dbPath := flag.String("db", "", "Database directory (overrides config)")
	tlsCert := flag.String("tlsCert", "", "TLS certificate file (overrides config)")
	tlsKey := flag.String("tlsKey", "", "TLS private key file (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("RowDB SQL Server v%s\n", Version)
		return
	}

	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *tlsCert != "" {
		cfg.Server.TLSCert = *tlsCert
	}
	if *tlsKey != "" {
		cfg.Server.TLSKey = *tlsKey
	}

	logger, logFile, err := cfg.Log.Open()
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer logFile.Close()

	path := *dbPath
	if path == "" {
		root, err := config.ProjectRoot()
		if err != nil {
			log.Fatalf("Failed to resolve project root: %v", err)
		}
		path = cfg.DatabasePath(root)
	}

	instance, err := RowDB.OpenPath(path, cfg.Database.Name, cfg.Database.History)
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}
	defer instance.Close()
	instance.Logger = logger
	instance.S3 = cfg.S3.Remote()
	instance.Debug = cfg.Log.Debug()

	var server *Server
	if cfg.Server.JWTSecret != "" {
		server = NewServerWithAuth(instance, &AuthConfig{
			JWTSecret: cfg.Server.JWTSecret,
			Issuer:    cfg.Server.Issuer,
			Audience:  cfg.Server.Audience,
		})
	} else {
		server = NewServer(instance, core.Identity{
			Name:  "RowDB Server",
			Email: "server@rowdb.local",
		})
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if cfg.Server.TLSCert != "" || cfg.Server.TLSKey != "" {
		err = server.StartTLS(addr, cfg.Server.TLSCert, cfg.Server.TLSKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   RowDB SQL Server v%-17s ║\n", Version)
	fmt.Println("║   Embedded SQL Storage Engine         ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Database: %s\n", path)
	fmt.Printf("Listening on port %d\n", cfg.Server.Port)
	fmt.Println("Send SQL statements (one per line), 'quit' to disconnect")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Println("[INFO] shutting down")
	server.Stop()
}

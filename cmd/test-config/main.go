package main

import (
	"fmt"
	"log"

	"github.com/usual2970/daywise/configs"
)

func main() {
	cfg, err := configs.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("Configuration Loaded Successfully")
	fmt.Println("==================================")
	fmt.Printf("Server:\n")
	fmt.Printf("  Host: %s\n", cfg.Server.Host)
	fmt.Printf("  Port: %d\n", cfg.Server.Port)
	fmt.Printf("  Address: %s\n", cfg.Server.Address())

	fmt.Printf("\nDatabase:\n")
	fmt.Printf("  Driver: %s\n", cfg.Database.Driver)
	fmt.Printf("  URL: %s\n", maskURL(cfg.Database.URL))
	fmt.Printf("  Max Open Conns: %d\n", cfg.Database.MaxOpenConns)
	fmt.Printf("  Max Idle Conns: %d\n", cfg.Database.MaxIdleConns)
	fmt.Printf("  Conn Max Lifetime: %v\n", cfg.Database.ConnMaxLifetime)
	fmt.Printf("  Conn Max Idle Time: %v\n", cfg.Database.ConnMaxIdleTime)
	fmt.Printf("  Migrations Dir: %s\n", cfg.Database.MigrationsDir)

	fmt.Printf("\nPlanner:\n")
	fmt.Printf("  Work Hours: %s - %s\n", cfg.Planner.WorkHoursStart, cfg.Planner.WorkHoursEnd)
	fmt.Printf("  Default Estimate Minutes: %d\n", cfg.Planner.DefaultEstimateMinutes)

	fmt.Printf("\nLogging:\n")
	fmt.Printf("  Level: %s\n", cfg.Log.Level)
	fmt.Printf("  Format: %s\n", cfg.Log.Format)

	fmt.Println("\n==================================")
	fmt.Println("All configuration values are valid.")
}

func maskURL(url string) string {
	if url == "" {
		return "(unset)"
	}
	if len(url) <= 12 {
		return "***"
	}
	return url[:8] + "***" + url[len(url)-4:]
}

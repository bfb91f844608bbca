// scripts/backfill_jalali/backfill_jalali.go
package main

import (
	"fmt"
	"log"

	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/config"
	"github.com/zhirosharifi/Student-grades-and-attendance-management-system/database"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)

	n, err := database.BackfillJalali(database.DB)
	if err != nil {
		log.Fatalf("backfill failed after %d rows: %v", n, err)
	}
	fmt.Println("date_jalali backfilled on", n, "rows")
}

// Command qrgen writes a printable QR code PNG for every table of a restaurant.
package main

import (
	"context"
	"flag"
	"log"

	"table_order/config"
	"table_order/database"
	"table_order/service"
)

func main() {
	restaurantID := flag.Uint("restaurant", 0, "restaurant id")
	out := flag.String("out", "qrcodes", "output directory")
	size := flag.Int("size", 512, "image size in pixels")
	frontendURL := flag.String("frontend", config.ConfigOr("FRONTEND_URL", "http://localhost:3000"), "customer app base url")
	workers := flag.Int("workers", 4, "concurrent renders")
	flag.Parse()

	if *restaurantID == 0 {
		log.Fatal("-restaurant is required")
	}

	db, err := database.Open(config.ConfigOr("DB_DRIVER", "postgres"))
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	svc := service.NewTableService(db, *frontendURL)
	paths, err := svc.ExportQRCodes(context.Background(), uint(*restaurantID), *out, *size, *workers)
	if err != nil {
		log.Fatalf("export qr codes: %v", err)
	}
	for _, p := range paths {
		log.Println("wrote", p)
	}
}

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// seedPromo mirrors the promo code seed record shape. It is kept local
// so the script stays runnable with `go run` without the module context.
type seedPromo struct {
	Code              string     `json:"code"`
	Description       string     `json:"description"`
	Discount          float64    `json:"discount"`
	DiscountType      string     `json:"discountType"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	UsageLimit        *int       `json:"usageLimit,omitempty"`
	MinPurchaseAmount *float64   `json:"minPurchaseAmount,omitempty"`
	MaxDiscount       *float64   `json:"maxDiscount,omitempty"`
}

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

// main writes a sample promo seed catalog as both plain JSON and
// gzipped JSON under data/.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC()
	nextYear := now.AddDate(1, 0, 0)

	promos := []seedPromo{
		{
			Code:         "START2024",
			Description:  "10% new customer discount",
			Discount:     10,
			DiscountType: "percentage",
			IsActive:     true,
			CreatedAt:    now,
			UsageLimit:   intPtr(100),
		},
		{
			Code:              "ECOM_BOOST",
			Description:       "500 off e-commerce projects",
			Discount:          500,
			DiscountType:      "fixed",
			IsActive:          true,
			CreatedAt:         now,
			MinPurchaseAmount: floatPtr(3000),
		},
		{
			Code:         "SUMMER25",
			Description:  "Summer campaign, capped at 750",
			Discount:     25,
			DiscountType: "percentage",
			IsActive:     true,
			CreatedAt:    now,
			ExpiresAt:    timePtr(nextYear),
			MaxDiscount:  floatPtr(750),
		},
		{
			Code:         "LAUNCH50",
			Description:  "Launch week, first 10 orders only",
			Discount:     50,
			DiscountType: "percentage",
			IsActive:     true,
			CreatedAt:    now,
			UsageLimit:   intPtr(10),
			MaxDiscount:  floatPtr(1000),
		},
		{
			Code:         "LEGACY2023",
			Description:  "Retired campaign kept for reporting",
			Discount:     15,
			DiscountType: "percentage",
			IsActive:     false,
			CreatedAt:    now.AddDate(-1, 0, 0),
		},
	}

	jsonPath := filepath.Join(dataDir, "promos.json")
	if err := writeJSONFile(jsonPath, promos); err != nil {
		log.Fatalf("Failed to create %s: %v", jsonPath, err)
	}
	fmt.Printf("Created %s with %d promo codes\n", jsonPath, len(promos))

	gzPath := filepath.Join(dataDir, "promos.json.gz")
	if err := writeGzipFile(gzPath, promos); err != nil {
		log.Fatalf("Failed to create %s: %v", gzPath, err)
	}
	fmt.Printf("Created %s with %d promo codes\n", gzPath, len(promos))

	fmt.Println("\nSample promo seed files created successfully!")
}

func writeJSONFile(path string, promos []seedPromo) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(promos)
}

func writeGzipFile(path string, promos []seedPromo) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := json.NewEncoder(gz).Encode(promos); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

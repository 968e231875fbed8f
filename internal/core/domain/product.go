package domain

import "time"

type Availability string

const (
	InStock    Availability = "In Stock"
	Limited    Availability = "Limited"
	OutOfStock Availability = "Out of Stock"
)

func (a Availability) Valid() bool {
	switch a {
	case InStock, Limited, OutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID           string
	Name         string
	Category     string
	Description  string
	Image        string
	Availability Availability
	LastUpdated  time.Time
}

var Categories = []string{
	"Medical Consumables",
	"Diagnostics",
	"Surgical Supplies",
	"Medical Equipment",
	"General Trade Items",
}

// SeedCatalog returns the catalog the store starts with.
func SeedCatalog(now time.Time) []Product {
	return []Product{
		{
			ID:           "1",
			Name:         "Normal Saline",
			Category:     "Medical Consumables",
			Description:  "Normal saline (0.9% sodium chloride solution) is a sterile intravenous fluid used widely in healthcare.",
			Image:        "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0c/NaCl_0%2C9%25_500ml_white_background.jpg/500px-NaCl_0%2C9%25_500ml_white_background.jpg",
			Availability: InStock,
			LastUpdated:  now,
		},
		{
			ID:           "2",
			Name:         "Digital BP Machine",
			Category:     "Diagnostics",
			Description:  "A digital BP machine is an electronic device used to measure blood pressure automatically.",
			Image:        "https://www.pbtech.com/imgprod/H/E/HEADGT1209__1.jpg?h=271394347",
			Availability: InStock,
			LastUpdated:  now,
		},
		{
			ID:           "3",
			Name:         "Surgical Instrument Set (Major)",
			Category:     "Surgical Supplies",
			Description:  "Comprehensive high-grade stainless steel set for major orthopedic and general surgery.",
			Image:        "https://images.unsplash.com/photo-1583947581924-860bda6a26df?auto=format&fit=crop&q=80&w=400",
			Availability: Limited,
			LastUpdated:  now,
		},
		{
			ID:           "4",
			Name:         "Wheel chair",
			Category:     "Medical Equipment",
			Description:  "Manual and automated wheelchairs designed for patient mobility and comfort.",
			Image:        "https://www.1800wheelchair.com/media/catalog/product/cache/af1ba6b38ac5da7610f24cf4a6e7e66c/d/s/dsc08286_1.png",
			Availability: InStock,
			LastUpdated:  now,
		},
		{
			ID:           "5",
			Name:         "2ml Disposable Syringes",
			Category:     "Medical Consumables",
			Description:  "Single-use sterile medical device designed for the administration of medications or fluids.",
			Image:        "https://m.media-amazon.com/images/I/6167cEXCSLL._AC_SY300_SX300_QL70_FMwebp_.jpg",
			Availability: Limited,
			LastUpdated:  now,
		},
		{
			ID:           "6",
			Name:         "Absorbent Cotton Wool",
			Category:     "Medical Consumables",
			Description:  "Absorbent cotton wool is a soft, sterile medical consumable used for wound care and cleaning.",
			Image:        "https://www.safetyfirstaid.co.uk/images/products/medium/D3703.jpg",
			Availability: InStock,
			LastUpdated:  now,
		},
		{
			ID:           "7",
			Name:         "Professional Stethoscope",
			Category:     "Diagnostics",
			Description:  "Diagnostic instrument used by healthcare professionals to listen to internal body sounds.",
			Image:        "https://m.media-amazon.com/images/I/61fJM2P+W0L._AC_SL400_.jpg",
			Availability: InStock,
			LastUpdated:  now,
		},
		{
			ID:           "8",
			Name:         "Blood Collection Tube",
			Category:     "Medical Consumables",
			Description:  "Sterile, single-use containers designed to collect and preserve blood samples.",
			Image:        "https://bsg-i.nbxc.com/product/c0/e5/fc/ef59eb2fc9e6a2f3bb623636d1.jpg@4e_500w_500h.src%7C95Q.webp",
			Availability: InStock,
			LastUpdated:  now,
		},
	}
}

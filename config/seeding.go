package config

import (
	"errors"
	"log"
	"os"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"lindel.lk/lims/models"
)

// RunAllSeeding runs all seeding operations in the correct order
func RunAllSeeding() error {
	log.Println("=== Starting Database Seeding ===")

	log.Println("[1/3] Seeding Parameter Catalog...")
	if err := SeedParameterCatalog(); err != nil {
		return err
	}

	log.Println("[2/3] Seeding Chemist Roster...")
	if err := SeedChemists(); err != nil {
		return err
	}

	log.Println("[3/3] Seeding Default Users...")
	if err := SeedUsers(); err != nil {
		return err
	}

	log.Println("=== Database Seeding Complete ===")
	return nil
}

// SeedParameterCatalog loads the laboratory's standard analysis catalog.
// Existing entries are left alone so price edits made through the
// configuration page survive a restart.
func SeedParameterCatalog() error {
	catalog := []models.TestParameter{
		// Wastewater parameters
		{Name: "COD", Unit: "mg/L", Method: "APHA 5220 D", DefaultPrice: 2500, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent"}, Category: "Chemical", Active: true},
		{Name: "BOD", Unit: "mg/L", Method: "APHA 5210 B", DefaultPrice: 3000, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent"}, Category: "Chemical", Active: true},
		{Name: "pH", Unit: "pH units", Method: "APHA 4500-H+ B", DefaultPrice: 500, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Drinking Water", "Industrial Effluent", "Soil"}, Category: "Physical", Active: true},
		{Name: "Total Suspended Solids", Unit: "mg/L", Method: "APHA 2540 D", DefaultPrice: 1500, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent", "Drinking Water"}, Category: "Physical", Active: true},
		{Name: "Oil & Grease", Unit: "mg/L", Method: "APHA 5520 B", DefaultPrice: 3500, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent"}, Category: "Chemical", Active: true},
		{Name: "Total Nitrogen", Unit: "mg/L", Method: "APHA 4500-N", DefaultPrice: 2800, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent"}, Category: "Chemical", Active: true},
		{Name: "Total Phosphorus", Unit: "mg/L", Method: "APHA 4500-P", DefaultPrice: 2600, ApplicableSampleTypes: pq.StringArray{"Wastewater", "Industrial Effluent"}, Category: "Chemical", Active: true},

		// Drinking water parameters
		{Name: "Total Coliform", Unit: "CFU/100mL", Method: "APHA 9221 B", DefaultPrice: 2000, ApplicableSampleTypes: pq.StringArray{"Drinking Water"}, Category: "Microbiological", Active: true},
		{Name: "E. coli", Unit: "CFU/100mL", Method: "APHA 9221 F", DefaultPrice: 2500, ApplicableSampleTypes: pq.StringArray{"Drinking Water", "Food"}, Category: "Microbiological", Active: true},
		{Name: "Turbidity", Unit: "NTU", Method: "APHA 2130 B", DefaultPrice: 800, ApplicableSampleTypes: pq.StringArray{"Drinking Water", "Wastewater"}, Category: "Physical", Active: true},
		{Name: "Chlorine (Free)", Unit: "mg/L", Method: "APHA 4500-Cl B", DefaultPrice: 600, ApplicableSampleTypes: pq.StringArray{"Drinking Water"}, Category: "Chemical", Active: true},
		{Name: "Total Hardness", Unit: "mg/L as CaCO3", Method: "APHA 2340 C", DefaultPrice: 1200, ApplicableSampleTypes: pq.StringArray{"Drinking Water"}, Category: "Chemical", Active: true},
		{Name: "Iron", Unit: "mg/L", Method: "APHA 3500-Fe B", DefaultPrice: 1500, ApplicableSampleTypes: pq.StringArray{"Drinking Water", "Wastewater"}, Category: "Chemical", Active: true},

		// Environmental noise
		{Name: "Noise Level", Unit: "dB(A)", Method: "ISO 1996-2", DefaultPrice: 3000, ApplicableSampleTypes: pq.StringArray{"Noise"}, Category: "Environmental", Active: true},
		{Name: "Peak Noise", Unit: "dB(A)", Method: "ISO 1996-2", DefaultPrice: 3500, ApplicableSampleTypes: pq.StringArray{"Noise"}, Category: "Environmental", Active: true},
		{Name: "Background Noise", Unit: "dB(A)", Method: "ISO 1996-2", DefaultPrice: 2800, ApplicableSampleTypes: pq.StringArray{"Noise"}, Category: "Environmental", Active: true},

		// Soil parameters
		{Name: "Moisture Content", Unit: "%", Method: "ASTM D2216", DefaultPrice: 1800, ApplicableSampleTypes: pq.StringArray{"Soil"}, Category: "Physical", Active: true},
		{Name: "Organic Matter", Unit: "%", Method: "ASTM D2974", DefaultPrice: 2200, ApplicableSampleTypes: pq.StringArray{"Soil"}, Category: "Chemical", Active: true},
		{Name: "Heavy Metals (Lead)", Unit: "mg/kg", Method: "EPA 3050B", DefaultPrice: 4000, ApplicableSampleTypes: pq.StringArray{"Soil"}, Category: "Chemical", Active: true},
		{Name: "Heavy Metals (Cadmium)", Unit: "mg/kg", Method: "EPA 3050B", DefaultPrice: 4000, ApplicableSampleTypes: pq.StringArray{"Soil"}, Category: "Chemical", Active: true},

		// Food parameters
		{Name: "Total Plate Count", Unit: "CFU/g", Method: "ISO 4833", DefaultPrice: 2500, ApplicableSampleTypes: pq.StringArray{"Food"}, Category: "Microbiological", Active: true},
		{Name: "Salmonella", Unit: "Presence/25g", Method: "ISO 6579", DefaultPrice: 3500, ApplicableSampleTypes: pq.StringArray{"Food"}, Category: "Microbiological", Active: true},
		{Name: "Moisture Content (Food)", Unit: "%", Method: "AOAC 925.10", DefaultPrice: 1500, ApplicableSampleTypes: pq.StringArray{"Food"}, Category: "Physical", Active: true},
		{Name: "Fat Content", Unit: "%", Method: "AOAC 922.06", DefaultPrice: 2000, ApplicableSampleTypes: pq.StringArray{"Food"}, Category: "Chemical", Active: true},
	}

	for _, p := range catalog {
		var existing models.TestParameter
		err := DB.First(&existing, "name = ?", p.Name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&p).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	log.Printf("Parameter catalog holds %d entries", len(catalog))
	return nil
}

// SeedChemists loads the bench analyst roster.
func SeedChemists() error {
	roster := []string{
		"D.H.S. Costa",
		"S.A.A.G. Senarathna",
		"K.M. Perera",
		"A.B. Jayawardena",
		"R.P. Silva",
		"N.T. Fernando",
	}
	for _, name := range roster {
		var existing models.Chemist
		err := DB.First(&existing, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := DB.Create(&models.Chemist{Name: name, Active: true}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates one login per role when the users table is empty.
// The default password comes from SEED_PASSWORD so deployments never
// ship a hardcoded credential.
func SeedUsers() error {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Println("SEED_PASSWORD not set, skipping default users")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Administrator", Email: "admin@lindel.lk", Role: models.RoleAdmin},
		{Name: "Front Desk", Email: "frontdesk@lindel.lk", Role: models.RoleFrontDesk},
		{Name: "Bench Chemist", Email: "chemist@lindel.lk", Role: models.RoleChemist},
		{Name: "Lab Supervisor", Email: "supervisor@lindel.lk", Role: models.RoleSupervisor},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
		users[i].IsActive = true
		if err := DB.Create(&users[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded %d default users", len(users))
	return nil
}

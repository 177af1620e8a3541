package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/rbmarquez/DoctorQ-sub003/internal/adapters/database"
	"github.com/rbmarquez/DoctorQ-sub003/internal/domain/entities"
	"github.com/rbmarquez/DoctorQ-sub003/internal/infrastructure/clients/postgres"
	"github.com/rbmarquez/DoctorQ-sub003/pkg/config"
)

// Development seeder: creates the schema and a small professional/procedure
// catalog so the booking flow works against a fresh database.

const schema = `
CREATE TABLE IF NOT EXISTS professionals (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	specialty          TEXT NOT NULL DEFAULT '',
	clinic_id          TEXT,
	agenda_external_id TEXT NOT NULL DEFAULT '',
	is_active          BOOLEAN NOT NULL DEFAULT TRUE,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS procedures (
	id               TEXT PRIMARY KEY,
	professional_id  TEXT NOT NULL REFERENCES professionals(id),
	name             TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL,
	price            NUMERIC(10,2) NOT NULL DEFAULT 0,
	color            TEXT NOT NULL DEFAULT '',
	buffer_minutes   INTEGER NOT NULL DEFAULT 0,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS appointments (
	id               TEXT PRIMARY KEY,
	patient_id       TEXT NOT NULL,
	professional_id  TEXT NOT NULL REFERENCES professionals(id),
	clinic_id        TEXT,
	procedure_id     TEXT REFERENCES procedures(id),
	scheduled_at     TIMESTAMPTZ NOT NULL,
	duration_minutes INTEGER NOT NULL,
	status           TEXT NOT NULL,
	patient_name     TEXT NOT NULL DEFAULT '',
	patient_phone    TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	agenda_event_id  TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_professional ON appointments(professional_id, scheduled_at);
CREATE INDEX IF NOT EXISTS idx_procedures_professional ON procedures(professional_id);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE appointments, procedures, professionals CASCADE`); err != nil {
			log.Printf("Truncate failed (tables may not exist yet): %v", err)
		}
	}

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	procedureRepo := database.NewProcedureAdapter(pgClient)

	clinicID := "clinic-centro-sp"
	now := time.Now().UTC()

	professionals := []entities.Professional{
		{ID: "prof-ana-lima", Name: "Dra. Ana Lima", Specialty: "Odontologia", ClinicID: &clinicID, IsActive: true},
		{ID: "prof-carlos-dias", Name: "Dr. Carlos Dias", Specialty: "Dermatologia", ClinicID: &clinicID, IsActive: true},
		{ID: "prof-julia-rocha", Name: "Dra. Júlia Rocha", Specialty: "Cardiologia", IsActive: true},
	}

	for _, p := range professionals {
		if _, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO professionals (id, name, specialty, clinic_id, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Name, p.Specialty, p.ClinicID, p.IsActive, now); err != nil {
			log.Fatalf("Failed to seed professional %s: %v", p.ID, err)
		}
	}
	log.Printf("Seeded %d professionals", len(professionals))

	procedures := []entities.Procedure{
		{ProfessionalID: "prof-ana-lima", Name: "Limpeza dental", DurationMinutes: 45, BufferMinutes: 10, Price: 180, Color: "#4CAF50"},
		{ProfessionalID: "prof-ana-lima", Name: "Clareamento", DurationMinutes: 60, BufferMinutes: 15, Price: 650, Color: "#2196F3"},
		{ProfessionalID: "prof-carlos-dias", Name: "Consulta dermatológica", DurationMinutes: 30, BufferMinutes: 5, Price: 320, Color: "#FF9800"},
		{ProfessionalID: "prof-julia-rocha", Name: "Consulta cardiológica", DurationMinutes: 40, BufferMinutes: 10, Price: 450, Color: "#E91E63"},
	}

	seeded := 0
	for _, p := range procedures {
		procedure := p
		procedure.ID = uuid.New().String()
		procedure.IsActive = true
		procedure.CreatedAt = now
		procedure.UpdatedAt = now
		if err := procedureRepo.Create(ctx, &procedure); err != nil {
			log.Fatalf("Failed to seed procedure %s: %v", procedure.Name, err)
		}
		seeded++
	}
	log.Printf("Seeded %d procedures", seeded)

	log.Println("Seeding complete")
}

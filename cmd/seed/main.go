package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"cmrpai/internal/cache"
	"cmrpai/internal/config"
	"cmrpai/internal/db"
	"cmrpai/internal/logger"
	"cmrpai/internal/model"
	"cmrpai/internal/repository"
	"cmrpai/internal/service"
)

const dateLayout = "2006-01-02"

// SeedAttention is an attention record in the seed file.
type SeedAttention struct {
	Date         string `json:"fecha"`
	Type         string `json:"tipo"`
	Professional string `json:"profesional"`
}

// SeedNNA is a minor in the seed file.
type SeedNNA struct {
	Name       string          `json:"nombre"`
	NationalID string          `json:"rut"`
	IntakeDate string          `json:"fecha_ingreso"`
	Status     string          `json:"estado"`
	Attentions []SeedAttention `json:"atenciones"`
}

func main() {
	file := flag.String("file", "", "JSON file with minors and attention records (default: built-in demo data)")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "cmrpai-seed")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	var batch []service.ImportNNA
	if *file == "" {
		batch = demoBatch(time.Now())
		log.Info("using built-in demo data", zap.Int("nna", len(batch)))
	} else {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal("open seed file", zap.String("file", *file), zap.Error(err))
		}
		batch, err = readSeed(f)
		f.Close()
		if err != nil {
			log.Fatal("read seed file", zap.String("file", *file), zap.Error(err))
		}
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	nnaService := service.NewNNAService(
		repository.NewNNARepository(gormDB),
		repository.NewAttentionRepository(gormDB),
		cacheClient,
	)

	result, err := nnaService.Import(context.Background(), batch)
	if err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seed completed",
		zap.Int("nna_created", result.Created),
		zap.Int("nna_reused", result.Reused),
		zap.Int("atenciones_created", result.Attentions),
	)
}

// readSeed decodes a seed file into an import batch.
func readSeed(r io.Reader) ([]service.ImportNNA, error) {
	var items []SeedNNA
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	batch := make([]service.ImportNNA, 0, len(items))
	for i, item := range items {
		if item.Name == "" {
			return nil, fmt.Errorf("entry %d: nombre is required", i)
		}
		intake, err := parseDate(item.IntakeDate)
		if err != nil {
			return nil, fmt.Errorf("entry %d: fecha_ingreso: %w", i, err)
		}
		nna := service.ImportNNA{
			Name:       item.Name,
			NationalID: item.NationalID,
			IntakeDate: intake,
			Status:     item.Status,
		}
		for j, a := range item.Attentions {
			date, err := parseDate(a.Date)
			if err != nil {
				return nil, fmt.Errorf("entry %d attention %d: fecha: %w", i, j, err)
			}
			nna.Attentions = append(nna.Attentions, service.ImportAttention{
				Date:         date,
				Type:         a.Type,
				Professional: a.Professional,
			})
		}
		batch = append(batch, nna)
	}
	return batch, nil
}

// parseDate accepts YYYY-MM-DD; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return model.Day(t), nil
}

// demoBatch builds demo minors with attention records spread over the last year.
func demoBatch(now time.Time) []service.ImportNNA {
	today := model.Day(now)
	types := []string{model.AttentionPsychology, model.AttentionOccupational, model.AttentionSocial}
	professionals := []string{"Carolina Soto", "Felipe Rojas", "Daniela Muñoz"}

	minors := []struct {
		name, rut, status string
		daysAgo           int
	}{
		{"Benjamín Araya", "21.345.678-9", model.StatusActive, 340},
		{"Sofía Contreras", "22.456.789-0", model.StatusActive, 280},
		{"Matías Fuentes", "20.987.654-3", model.StatusDischarged, 250},
		{"Isidora Reyes", "23.111.222-K", model.StatusActive, 190},
		{"Vicente Morales", "21.876.543-2", model.StatusActive, 120},
		{"Agustina Pérez", "24.222.333-4", model.StatusActive, 45},
	}

	batch := make([]service.ImportNNA, 0, len(minors))
	for i, m := range minors {
		intake := today.AddDate(0, 0, -m.daysAgo)
		nna := service.ImportNNA{
			Name:       m.name,
			NationalID: m.rut,
			IntakeDate: intake,
			Status:     m.status,
		}
		for d := 7 + i; d < m.daysAgo; d += 17 + 3*i {
			k := d + i
			nna.Attentions = append(nna.Attentions, service.ImportAttention{
				Date:         today.AddDate(0, 0, -d),
				Type:         types[k%len(types)],
				Professional: professionals[k%len(professionals)],
			})
		}
		batch = append(batch, nna)
	}
	return batch
}

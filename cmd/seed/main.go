// seed puebla el catálogo de features y los paquetes de suscripción base.
// Es idempotente: las entradas ya existentes (por tag o nombre de paquete) se
// dejan como están.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/infrastructure/postgres"
	"github.com/tamayuz/platform-api/pkg/config"
	"github.com/tamayuz/platform-api/pkg/logger"
)

type seedFeature struct {
	name        string
	tag         string
	order       int
	description string
	price       string
	featureType string
	required    string
	h           int
}

// Catálogo base. El orden agrupa: dashboard y configuración primero, luego
// pedidos, inventario y por último el paquete de cámara.
var catalog = []seedFeature{
	{name: "Dashboard", tag: "dashboard", order: 1, description: "Panel principal", price: "0", featureType: entity.FeatureTypeFree},
	{name: "Configuración de empresa", tag: "companysettings_view", order: 2, price: "0", featureType: entity.FeatureTypeFree},
	{name: "Editar configuración", tag: "companysettings_edit", order: 3, price: "0", featureType: entity.FeatureTypeFree},

	{name: "Ver pedidos", tag: "orders_view", order: 10, price: "9.99", featureType: entity.FeatureTypePaid},
	{name: "Crear pedidos", tag: "orders_create", order: 11, price: "9.99", featureType: entity.FeatureTypePaid},
	{name: "Editar pedidos", tag: "orders_edit", order: 12, price: "9.99", featureType: entity.FeatureTypePaid},
	{name: "Eliminar pedidos", tag: "orders_delete", order: 13, price: "9.99", featureType: entity.FeatureTypePaid},

	{name: "Ver inventario", tag: "inventory_view", order: 20, price: "14.99", featureType: entity.FeatureTypePaid},
	{name: "Ajustar inventario", tag: "inventory_edit", order: 21, price: "14.99", featureType: entity.FeatureTypePaid},
	{name: "Alertas de stock", tag: "inventory_alerts", order: 22, price: "4.99", featureType: entity.FeatureTypePaid, required: entity.RequiredSensor},

	{name: "Reportes de ventas", tag: "reports_view", order: 30, price: "19.99", featureType: entity.FeatureTypePaid},

	// Paquete de cámara: las features con Required=camera arrastran a las
	// camera_* en la expansión, y camera_live entra sola al layout.
	{name: "Conteo de personas", tag: "people_counting", order: 40, price: "29.99", featureType: entity.FeatureTypePaid, required: entity.RequiredCamera, h: 130},
	{name: "Mapa de calor", tag: "heatmap_view", order: 41, price: "29.99", featureType: entity.FeatureTypePaid, required: entity.RequiredCamera, h: 130},
	{name: "Cámara en vivo", tag: entity.TagCameraLive, order: 50, price: "0", featureType: entity.FeatureTypeDepends, required: entity.RequiredCamera, h: 130},
	{name: "Grabaciones", tag: "camera_recordings", order: 51, price: "0", featureType: entity.FeatureTypeDepends, required: entity.RequiredCamera},
}

type seedPackage struct {
	name  string
	price string
	tags  []string
}

var packages = []seedPackage{
	{name: "Básico", price: "24.99", tags: []string{"orders_view", "orders_create", "orders_edit"}},
	{name: "Comercio", price: "49.99", tags: []string{"orders_view", "orders_create", "orders_edit", "orders_delete", "inventory_view", "inventory_edit", "reports_view"}},
	{name: "Completo", price: "89.99", tags: []string{"orders_view", "orders_create", "orders_edit", "orders_delete", "inventory_view", "inventory_edit", "inventory_alerts", "reports_view", "people_counting", "heatmap_view"}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	featureRepo := postgres.NewFeatureRepository(pool)
	subRepo := postgres.NewSubscriptionRepository(pool)

	idByTag := make(map[string]string, len(catalog))
	created := 0
	for _, s := range catalog {
		existing, err := featureRepo.GetByTag(ctx, s.tag)
		if err != nil {
			log.Fatal().Err(err).Str("tag", s.tag).Msg("consultar feature")
		}
		if existing != nil {
			idByTag[s.tag] = existing.ID
			continue
		}
		now := time.Now()
		f := &entity.AppFeature{
			ID:          uuid.New().String(),
			Name:        s.name,
			Tag:         s.tag,
			Order:       s.order,
			Description: s.description,
			Price:       decimal.RequireFromString(s.price),
			FeatureType: s.featureType,
			Required:    s.required,
			W:           entity.DefaultCellW,
			H:           entity.DefaultCellH,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.h != 0 {
			f.H = s.h
		}
		feature.Annotate(f)
		if err := featureRepo.Create(ctx, f); err != nil {
			log.Fatal().Err(err).Str("tag", s.tag).Msg("crear feature")
		}
		idByTag[s.tag] = f.ID
		created++
	}
	log.Info().Int("nuevas", created).Int("total", len(catalog)).Msg("catálogo de features")

	existing, err := subRepo.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listar paquetes")
	}
	byName := make(map[string]bool, len(existing))
	for _, s := range existing {
		byName[s.PackageName] = true
	}

	created = 0
	for _, p := range packages {
		if byName[p.name] {
			continue
		}
		now := time.Now()
		sub := &entity.Subscription{
			ID:           uuid.New().String(),
			PackageName:  p.name,
			PackagePrice: decimal.RequireFromString(p.price),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := subRepo.Create(ctx, sub); err != nil {
			log.Fatal().Err(err).Str("paquete", p.name).Msg("crear paquete")
		}
		ids := make([]string, 0, len(p.tags))
		for _, tag := range p.tags {
			id, ok := idByTag[tag]
			if !ok {
				log.Fatal().Str("paquete", p.name).Str("tag", tag).Msg("tag desconocido en el paquete")
			}
			ids = append(ids, id)
		}
		if err := subRepo.SetFeatures(ctx, sub.ID, ids); err != nil {
			log.Fatal().Err(err).Str("paquete", p.name).Msg("asociar features del paquete")
		}
		created++
	}
	log.Info().Int("nuevos", created).Int("total", len(packages)).Msg("paquetes de suscripción")
}

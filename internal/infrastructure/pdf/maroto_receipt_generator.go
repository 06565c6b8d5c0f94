// Package pdf implementa el comprobante PDF de una suscripción pagada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la plataforma  │  Ref (uid) + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Email                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Feature | Tipo | Precio                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL PAGADO + vigencia                                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Ensure MarotoReceiptGenerator implements ports.ReceiptGenerator.
var _ ports.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	platformName string
}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(platformName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{platformName: platformName}
}

// Generate genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) Generate(hist *entity.SubscriptionHistory, user *entity.User, features []entity.AppFeature) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de suscripción", true).
		WithAuthor(g.platformName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(hist))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(user))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableFeatureRows(features) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(hist))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: plataforma (izq) y referencia + fecha (der).
func (g *MarotoReceiptGenerator) headerRow(hist *entity.SubscriptionHistory) core.Row {
	fecha := hist.StartDate.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.platformName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de suscripción", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REF "+hist.UID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del titular.
func clientRow(user *entity.User) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TITULAR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(user.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+user.Email, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de features contratadas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Funcionalidad", 7, align.Left),
		h("Tipo", 2, align.Center),
		h("Precio", 3, align.Right),
	)
}

// tableFeatureRows: una fila por feature contratada.
func tableFeatureRows(features []entity.AppFeature) []core.Row {
	result := make([]core.Row, 0, len(features))
	for _, f := range features {
		result = append(result, row.New(7).Add(
			col.New(7).Add(text.New(f.Name, props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(f.FeatureType, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(f.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}

// totalRow: total pagado y vigencia.
func totalRow(hist *entity.SubscriptionHistory) core.Row {
	vigencia := fmt.Sprintf("%d meses", hist.PackageDuration)
	if hist.EndDate != nil {
		vigencia = fmt.Sprintf("%s → %s",
			hist.StartDate.Format("02/01/2006"), hist.EndDate.Format("02/01/2006"))
	}
	return row.New(14).Add(
		col.New(7).Add(
			text.New("Vigencia: "+vigencia, props.Text{Size: 8, Top: 4, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("TOTAL PAGADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("$ "+hist.Payment.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

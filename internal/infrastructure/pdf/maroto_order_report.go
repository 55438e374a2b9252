// Package pdf genera la orden de producción imprimible: cabecera de la MO,
// tabla de órdenes de trabajo y líneas de requerimiento de componentes con
// su disponibilidad. El costo mostrado usa el costo unitario plano de la
// configuración (informativo, sin pretensión contable).
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/amoreX/nmitoddo-back-sub000/internal/application/dto"
	"github.com/amoreX/nmitoddo-back-sub000/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoOrderReport genera la orden de producción en PDF usando Maroto v2.
type MarotoOrderReport struct {
	flatUnitCost decimal.Decimal
}

// NewMarotoOrderReport construye el generador.
func NewMarotoOrderReport(flatUnitCost decimal.Decimal) *MarotoOrderReport {
	return &MarotoOrderReport{flatUnitCost: flatUnitCost}
}

// Generate genera el PDF de la orden y devuelve sus bytes.
func (g *MarotoOrderReport) Generate(
	mo *entity.ManufacturingOrder,
	product *entity.Product,
	wos []*entity.WorkOrder,
	availability *dto.AvailabilityDTO,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de Producción", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRows(mo, product)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("Órdenes de trabajo"))
	m.AddRows(woHeaderRow())
	for _, wo := range wos {
		m.AddRows(woRow(wo))
	}

	if availability != nil && len(availability.Components) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitle("Componentes requeridos"))
		m.AddRows(componentHeaderRow())
		for _, c := range availability.Components {
			m.AddRows(componentRow(c, g.flatUnitCost))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF de orden: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoOrderReport) headerRows(mo *entity.ManufacturingOrder, product *entity.Product) []core.Row {
	name := product.Name
	if name == "" {
		name = "(producto sin especificar)"
	}
	deadline := "—"
	if mo.Deadline != nil {
		deadline = mo.Deadline.Format("2006-01-02")
	}
	return []core.Row{
		row.New(10).Add(
			text.NewCol(8, "ORDEN DE PRODUCCIÓN", props.Text{Size: 14, Style: fontstyle.Bold, Color: colorPrimary}),
			text.NewCol(4, "N° "+mo.ID, props.Text{Size: 8, Align: align.Right, Color: colorGray}),
		),
		row.New(6).Add(
			text.NewCol(6, "Producto: "+name, props.Text{Size: 9}),
			text.NewCol(3, "Cantidad: "+mo.Quantity.String(), props.Text{Size: 9}),
			text.NewCol(3, "Estado: "+string(mo.Status), props.Text{Size: 9, Align: align.Right}),
		),
		row.New(6).Add(
			text.NewCol(12, "Fecha límite: "+deadline, props.Text{Size: 8, Color: colorGray}),
		),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(
		text.NewCol(12, title, props.Text{Size: 10, Style: fontstyle.Bold, Color: colorPrimary, Top: 2}),
	)
}

func woHeaderRow() core.Row {
	header := props.Text{Size: 8, Style: fontstyle.Bold}
	return row.New(6).Add(
		text.NewCol(6, "Operación", header),
		text.NewCol(2, "Estado", header),
		text.NewCol(2, "Plan (min)", headerRight()),
		text.NewCol(2, "Hecho (min)", headerRight()),
	)
}

func headerRight() props.Text {
	return props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
}

func woRow(wo *entity.WorkOrder) core.Row {
	cell := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	return row.New(5).Add(
		text.NewCol(6, wo.Operation, cell),
		text.NewCol(2, string(wo.Status), cell),
		text.NewCol(2, fmt.Sprintf("%d", wo.DurationPlannedMinutes), right),
		text.NewCol(2, fmt.Sprintf("%d", wo.DurationDoneMinutes), right),
	)
}

func componentHeaderRow() core.Row {
	header := props.Text{Size: 8, Style: fontstyle.Bold}
	return row.New(6).Add(
		text.NewCol(4, "Componente", header),
		text.NewCol(2, "Requerido", headerRight()),
		text.NewCol(2, "Disponible", headerRight()),
		text.NewCol(2, "Faltante", headerRight()),
		text.NewCol(2, "Costo est.", headerRight()),
	)
}

func componentRow(c dto.ComponentAvailabilityDTO, flatUnitCost decimal.Decimal) core.Row {
	name := c.ComponentName
	if name == "" {
		name = c.ComponentID
	}
	cell := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	return row.New(5).Add(
		text.NewCol(4, name, cell),
		text.NewCol(2, c.Required.String(), right),
		text.NewCol(2, c.Available.String(), right),
		text.NewCol(2, c.Shortage.String(), right),
		text.NewCol(2, c.Required.Mul(flatUnitCost).StringFixed(2), right),
	)
}

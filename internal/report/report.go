// Package report renders an after-action PDF for a finished battle.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf/v2"

	"squadtactics/internal/combat"
)

var errNilResult = errors.New("report: nil result")

const (
	pageW     = 595.28
	pageH     = 841.89
	margin    = 36.0
	titleSize = 18
	fontSize  = 10
	maxCell   = 56.0
	maxEvents = 120
)

// Generate draws the final board of res with unit markers, followed by a
// per-unit table. title goes in the header; an empty title uses a default.
func Generate(res *combat.SimResult, title string) ([]byte, error) {
	if res == nil {
		return nil, errNilResult
	}
	if title == "" {
		title = "After-action report"
	}
	snap := res.Final

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	pdf.SetTextColor(30, 30, 30)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 22, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", fontSize)
	summary := fmt.Sprintf("Outcome: %s   Rounds: %d   Seed: %d   Survivors: %d player / %d enemy",
		res.Outcome, res.Rounds, res.Seed, res.PlayersAlive, res.EnemiesAlive)
	if res.TimedOut {
		summary += "   (round cap reached)"
	}
	pdf.CellFormat(0, 14, summary, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	if snap.Width > 0 && snap.Height > 0 {
		drawBoard(pdf, snap, pdf.GetY())
	}
	drawUnitTable(pdf, res)
	drawEventLog(pdf, res.Events)

	if len(res.Warnings) > 0 {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.CellFormat(0, 14, "Setup warnings", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", fontSize-1)
		for _, w := range res.Warnings {
			pdf.MultiCell(0, 12, "- "+w, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func cellSize(w, h int) float64 {
	size := (pageW - 2*margin) / float64(w)
	if alt := (pageH / 2) / float64(h); alt < size {
		size = alt
	}
	return min(size, maxCell)
}

func drawBoard(pdf *gofpdf.Fpdf, snap combat.Snapshot, top float64) {
	size := cellSize(snap.Width, snap.Height)
	left := margin

	cover := map[[2]int]string{}
	for _, c := range snap.Cover {
		cover[[2]int{c.X, c.Y}] = c.Cover
	}

	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(120, 120, 120)
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			switch cover[[2]int{x, y}] {
			case "high":
				pdf.SetFillColor(90, 90, 90)
			case "low":
				pdf.SetFillColor(190, 190, 170)
			default:
				pdf.SetFillColor(240, 240, 232)
			}
			pdf.Rect(left+float64(x)*size, top+float64(y)*size, size, size, "FD")
		}
	}

	pdf.SetFont("Helvetica", "B", 7)
	for _, u := range snap.Units {
		cx := left + (float64(u.Pos.X)+0.5)*size
		cy := top + (float64(u.Pos.Y)+0.5)*size
		r := size * 0.32
		if u.Team == "player" {
			pdf.SetFillColor(50, 100, 200)
		} else {
			pdf.SetFillColor(200, 60, 50)
		}
		if !u.Alive {
			pdf.SetDrawColor(40, 40, 40)
			pdf.SetLineWidth(1.5)
			pdf.Line(cx-r, cy-r, cx+r, cy+r)
			pdf.Line(cx-r, cy+r, cx+r, cy-r)
			pdf.SetLineWidth(0.5)
			continue
		}
		pdf.SetDrawColor(20, 20, 20)
		pdf.Circle(cx, cy, r, "FD")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetXY(cx-size/2, cy+r)
		pdf.CellFormat(size, 8, u.ID, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(30, 30, 30)
	pdf.SetXY(margin, top+float64(snap.Height)*size+12)
}

func drawUnitTable(pdf *gofpdf.Fpdf, res *combat.SimResult) {
	cols := []struct {
		head  string
		width float64
	}{
		{"Unit", 120}, {"Team", 60}, {"Class", 80}, {"HP", 60}, {"Status", 70}, {"Damage dealt", 90},
	}
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(220, 220, 220)
	for _, c := range cols {
		pdf.CellFormat(c.width, 16, c.head, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	units := append([]combat.UnitView(nil), res.Final.Units...)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Team > units[j].Team })

	pdf.SetFont("Helvetica", "", fontSize)
	for _, u := range units {
		status := "active"
		if !u.Alive {
			status = "down"
		}
		row := []string{
			u.Name, u.Team, u.Class,
			fmt.Sprintf("%d/%d", u.HP, u.MaxHP),
			status,
			fmt.Sprintf("%d", res.DamageByUnit[u.ID]),
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, 14, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", fontSize-1)
	for _, team := range []string{"player", "enemy"} {
		shots, hits := res.Shots[team], res.Hits[team]
		rate := 0.0
		if shots > 0 {
			rate = float64(hits) / float64(shots) * 100
		}
		pdf.CellFormat(0, 12, fmt.Sprintf("%s fire: %d shots, %d hits (%.0f%%)", team, shots, hits, rate), "", 1, "L", false, 0, "")
	}
}

// drawEventLog lists recorded events, oldest first, up to maxEvents lines.
func drawEventLog(pdf *gofpdf.Fpdf, events []combat.Event) {
	if len(events) == 0 {
		return
	}
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.CellFormat(0, 14, "Event log", "", 1, "L", false, 0, "")
	pdf.SetFont("Courier", "", fontSize-2)
	for i, ev := range events {
		if i == maxEvents {
			pdf.CellFormat(0, 10, fmt.Sprintf("... %d more", len(events)-maxEvents), "", 1, "L", false, 0, "")
			break
		}
		pdf.CellFormat(0, 10, eventLine(ev), "", 1, "L", false, 0, "")
	}
}

func eventLine(ev combat.Event) string {
	p := ev.Payload
	var text string
	switch ev.Type {
	case combat.EventPhaseChanged:
		text = fmt.Sprintf("%v phase", p["phase"])
	case combat.EventUnitSelected:
		text = fmt.Sprintf("%v selected", p["unit"])
	case combat.EventUnitMoved:
		text = fmt.Sprintf("%v moves %v -> %v", p["unit"], p["from"], p["to"])
	case combat.EventAttackResolved:
		if hit, _ := p["hit"].(bool); hit {
			text = fmt.Sprintf("%v hits %v for %v (%v%%)", p["attacker"], p["target"], p["damage"], p["hit_chance"])
		} else {
			text = fmt.Sprintf("%v misses %v (%v%%)", p["attacker"], p["target"], p["hit_chance"])
		}
	case combat.EventUnitDowned:
		text = fmt.Sprintf("%v is down", p["unit"])
	case combat.EventAbilityUsed:
		text = fmt.Sprintf("%v uses %v on %v", p["unit"], p["ability"], p["target"])
	case combat.EventStatusApplied:
		text = fmt.Sprintf("%v gains %v", p["unit"], p["status"])
	case combat.EventStatusExpired:
		text = fmt.Sprintf("%v loses %v", p["unit"], p["status"])
	case combat.EventEnemyStalled:
		text = fmt.Sprintf("%v stalls: %v", p["unit"], p["reason"])
	case combat.EventBattleResolved:
		text = fmt.Sprintf("battle %v", p["outcome"])
	default:
		text = ev.Type
	}
	return fmt.Sprintf("R%-3d %s", ev.Round, text)
}

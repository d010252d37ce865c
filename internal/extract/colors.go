package extract

import "github.com/sells-group/roster-cli/internal/model"

// GroupPalette colors table groups in creation order.
var GroupPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD",
	"#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9", "#F8B500", "#E74C3C",
	"#1ABC9C", "#9B59B6", "#3498DB", "#E67E22", "#2ECC71", "#F39C12",
	"#8E44AD", "#16A085", "#D35400", "#27AE60", "#2980B9", "#C0392B",
	"#7D3C98", "#148F77", "#D68910", "#1F618D", "#922B21", "#76448A",
	"#117A65", "#B9770E", "#1A5276", "#7B241C", "#5B2C6F", "#0E6655",
}

// SupportTeamPalette colors support teams in order of appearance.
var SupportTeamPalette = []string{"#22c55e", "#10b981", "#14b8a6", "#0d9488"}

// ServicePointColors maps a point type to its display color.
var ServicePointColors = map[model.PointType]string{
	model.PointBar:    "#06b6d4",
	model.PointDepo:   "#8b5cf6",
	model.PointFuaye:  "#f59e0b",
	model.PointCasino: "#ef4444",
	model.PointOther:  "#64748b",
}

// ColorAllocator hands out palette colors deterministically. It is a value:
// Next returns the color and the advanced allocator, leaving the receiver
// untouched.
type ColorAllocator struct {
	palette []string
	next    int
}

// NewColorAllocator starts at the first color of palette. An empty palette
// selects GroupPalette.
func NewColorAllocator(palette []string) ColorAllocator {
	return ColorAllocator{palette: palette}
}

// Next returns the current color and an allocator positioned after it.
func (c ColorAllocator) Next() (string, ColorAllocator) {
	p := c.palette
	if len(p) == 0 {
		p = GroupPalette
	}
	color := p[c.next%len(p)]
	return color, ColorAllocator{palette: c.palette, next: c.next + 1}
}

// Used returns how many colors have been handed out.
func (c ColorAllocator) Used() int {
	return c.next
}

func supportTeamColor(i int) string {
	return SupportTeamPalette[i%len(SupportTeamPalette)]
}

func servicePointColor(t model.PointType) string {
	if c, ok := ServicePointColors[t]; ok {
		return c
	}
	return ServicePointColors[model.PointOther]
}

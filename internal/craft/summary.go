package craft

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/shipsim/internal/parts"
)

// StandardGravity is used for the thrust-to-weight line of the summary.
const StandardGravity = 9.81

func (s *Spaceship) Summary() string {
	var b strings.Builder
	com := s.mass.CenterOfMass

	fmt.Fprintf(&b, "parts:         %d\n", len(s.parts))
	fmt.Fprintf(&b, "total mass:    %.1f kg (fuel %.1f kg)\n", s.mass.TotalMass, s.FuelMass())
	fmt.Fprintf(&b, "center of mass: (%.3f, %.3f, %.3f) m\n", com[0], com[1], com[2])

	I := s.mass.Inertia
	b.WriteString("inertia (kg·m²):\n")
	for row := 0; row < 3; row++ {
		fmt.Fprintf(&b, "  [%10.2f %10.2f %10.2f]\n", I.At(row, 0), I.At(row, 1), I.At(row, 2))
	}
	if moments, err := PrincipalMoments(I); err == nil {
		fmt.Fprintf(&b, "principal:     %.2f  %.2f  %.2f\n", moments[0], moments[1], moments[2])
	}
	fmt.Fprintf(&b, "drag area:     %.3f m²\n", s.dragArea)
	fmt.Fprintf(&b, "max thrust:    %.0f N (T/W %.2f)\n", s.MaxThrust(), s.ThrustToWeight(StandardGravity))

	counts := s.CountByKind()
	b.WriteString("\n")
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tMASS\tPOSITION")
	for _, k := range parts.Kinds {
		if counts[k] == 0 {
			continue
		}
		for _, p := range s.parts {
			if p.Kind() != k {
				continue
			}
			pos := p.Position
			fmt.Fprintf(w, "%s\t%s\t%.1f\t(%.2f, %.2f, %.2f)\n", p.Name, k, p.TotalMass(), pos[0], pos[1], pos[2])
		}
	}
	w.Flush()

	return b.String()
}

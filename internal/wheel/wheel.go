package wheel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrInvalidGeometry = errors.New("invalid wheel geometry")

type Side int

const (
	DriveSide    Side = 1
	NonDriveSide Side = -1
)

func (s Side) String() string {
	if s == DriveSide {
		return "ds"
	}
	return "nds"
}

type Hub struct {
	DiameterDS  float64
	DiameterNDS float64
	WidthDS     float64
	WidthNDS    float64
}

func NewHub(diameterDS, diameterNDS, widthDS, widthNDS float64) (Hub, error) {
	if diameterDS <= 0 || diameterNDS <= 0 {
		return Hub{}, fmt.Errorf("%w: hub diameter must be positive", ErrInvalidGeometry)
	}
	if widthDS <= 0 || widthNDS <= 0 {
		return Hub{}, fmt.Errorf("%w: hub flange width must be positive", ErrInvalidGeometry)
	}
	return Hub{DiameterDS: diameterDS, DiameterNDS: diameterNDS, WidthDS: widthDS, WidthNDS: widthNDS}, nil
}

// flange returns the flange radius and signed lateral offset for a side.
func (h Hub) flange(side Side) (radius, z float64) {
	if side == DriveSide {
		return h.DiameterDS / 2, h.WidthDS
	}
	return h.DiameterNDS / 2, -h.WidthNDS
}

// Section holds the rim cross-section constants.
type Section struct {
	Area  float64
	IRad  float64 // radial bending
	ILat  float64 // lateral bending
	JTor  float64 // torsion
	IWarp float64 // warping, zero when unknown
}

type Rim struct {
	Radius   float64
	Section  Section
	YoungMod float64
	ShearMod float64
	Density  float64
}

func NewRim(radius float64, sec Section, youngMod, shearMod, density float64) (Rim, error) {
	switch {
	case radius <= 0:
		return Rim{}, fmt.Errorf("%w: rim radius must be positive", ErrInvalidGeometry)
	case sec.Area <= 0 || sec.IRad <= 0 || sec.ILat <= 0 || sec.JTor <= 0:
		return Rim{}, fmt.Errorf("%w: rim section constants must be positive", ErrInvalidGeometry)
	case sec.IWarp < 0:
		return Rim{}, fmt.Errorf("%w: rim warping constant must not be negative", ErrInvalidGeometry)
	case youngMod <= 0 || shearMod <= 0:
		return Rim{}, fmt.Errorf("%w: rim moduli must be positive", ErrInvalidGeometry)
	case density < 0:
		return Rim{}, fmt.Errorf("%w: rim density must not be negative", ErrInvalidGeometry)
	}
	return Rim{Radius: radius, Section: sec, YoungMod: youngMod, ShearMod: shearMod, Density: density}, nil
}

func (r Rim) Mass() float64 {
	return r.Section.Area * r.Density * 2 * math.Pi * r.Radius
}

// Inertia is the thin-ring moment of inertia about the axle.
func (r Rim) Inertia() float64 {
	return r.Mass() * r.Radius * r.Radius
}

// Lacing describes one cross-laced set of spokes.
type Lacing struct {
	Num      int
	NumCross int
	Diameter float64
	YoungMod float64
	Density  float64
	Offset   float64
}

func (l Lacing) validate(minNum int) error {
	switch {
	case l.Num < minNum:
		return fmt.Errorf("%w: need at least %d spokes, got %d", ErrInvalidGeometry, minNum, l.Num)
	case l.NumCross < 0:
		return fmt.Errorf("%w: num_cross must not be negative", ErrInvalidGeometry)
	case l.Diameter <= 0:
		return fmt.Errorf("%w: spoke diameter must be positive", ErrInvalidGeometry)
	case l.YoungMod <= 0:
		return fmt.Errorf("%w: spoke young_mod must be positive", ErrInvalidGeometry)
	case l.Density < 0:
		return fmt.Errorf("%w: spoke density must not be negative", ErrInvalidGeometry)
	}
	return nil
}

type Wheel struct {
	Hub    Hub
	Rim    Rim
	Spokes []Spoke
}

func New(hub Hub, rim Rim) *Wheel {
	return &Wheel{Hub: hub, Rim: rim}
}

// LaceCross laces l.Num spokes split evenly over both flanges. Non-drive-side
// spokes sit half a hole spacing after the drive-side ones.
func (w *Wheel) LaceCross(l Lacing) error {
	if err := l.validate(4); err != nil {
		return err
	}
	if l.Num%2 != 0 {
		return fmt.Errorf("%w: spoke count must be even, got %d", ErrInvalidGeometry, l.Num)
	}
	half := l
	half.Num = l.Num / 2
	w.Spokes = w.Spokes[:0]
	w.laceSide(DriveSide, half, 0)
	w.laceSide(NonDriveSide, half, math.Pi/float64(half.Num))
	w.sortSpokes()
	return nil
}

func (w *Wheel) LaceCrossDS(l Lacing) error {
	if err := l.validate(2); err != nil {
		return err
	}
	w.laceSide(DriveSide, l, 0)
	w.sortSpokes()
	return nil
}

func (w *Wheel) LaceCrossNDS(l Lacing) error {
	if err := l.validate(2); err != nil {
		return err
	}
	w.laceSide(NonDriveSide, l, math.Pi/float64(l.Num))
	w.sortSpokes()
	return nil
}

func (w *Wheel) laceSide(side Side, l Lacing, shift float64) {
	hubR, hubZ := w.Hub.flange(side)
	step := 2 * math.Pi / float64(l.Num)
	for s := 0; s < l.Num; s++ {
		dir := 1.0
		if s%2 == 1 {
			dir = -1
		}
		theta := l.Offset + shift + float64(s)*step
		hubTheta := theta + dir*float64(l.NumCross)*step
		w.Spokes = append(w.Spokes, newSpoke(w.Rim.Radius, hubR, hubZ, theta, hubTheta, side, l))
	}
}

func (w *Wheel) sortSpokes() {
	sort.SliceStable(w.Spokes, func(i, j int) bool {
		return normAngle(w.Spokes[i].Theta) < normAngle(w.Spokes[j].Theta)
	})
}

// ApplyTension sets drive-side spokes to tensionDS and balances the
// non-drive side so the hub carries no net lateral force.
func (w *Wheel) ApplyTension(tensionDS float64) {
	var latDS, latNDS float64
	for _, s := range w.Spokes {
		if s.Side == DriveSide {
			latDS += math.Abs(s.Dir[0])
		} else {
			latNDS += math.Abs(s.Dir[0])
		}
	}
	tensionNDS := tensionDS
	if latDS > 0 && latNDS > 0 {
		tensionNDS = tensionDS * latDS / latNDS
	}
	for i := range w.Spokes {
		if w.Spokes[i].Side == DriveSide {
			w.Spokes[i].Tension = tensionDS
		} else {
			w.Spokes[i].Tension = tensionNDS
		}
	}
}

// MeanTension is the average spoke tension.
func (w *Wheel) MeanTension() float64 {
	if len(w.Spokes) == 0 {
		return 0
	}
	var sum float64
	for _, s := range w.Spokes {
		sum += s.Tension
	}
	return sum / float64(len(w.Spokes))
}

// TensionPattern returns each spoke's tension divided by the mean tension.
// An untensioned wheel gets the pattern ApplyTension would produce.
func (w *Wheel) TensionPattern() []float64 {
	out := make([]float64, len(w.Spokes))
	mean := w.MeanTension()
	if mean != 0 {
		for i, s := range w.Spokes {
			out[i] = s.Tension / mean
		}
		return out
	}
	probe := &Wheel{Hub: w.Hub, Rim: w.Rim, Spokes: append([]Spoke(nil), w.Spokes...)}
	probe.ApplyTension(1)
	mean = probe.MeanTension()
	for i, s := range probe.Spokes {
		out[i] = s.Tension / mean
	}
	return out
}

func (w *Wheel) Validate() error {
	if len(w.Spokes) == 0 {
		return fmt.Errorf("%w: wheel has no spokes", ErrInvalidGeometry)
	}
	for i, s := range w.Spokes {
		if s.Length <= 0 {
			return fmt.Errorf("%w: spoke %d has zero length", ErrInvalidGeometry, i)
		}
	}
	return nil
}

func (w *Wheel) Mass() float64 {
	m := w.Rim.Mass()
	for _, s := range w.Spokes {
		m += s.Mass()
	}
	return m
}

func (w *Wheel) Inertia() float64 {
	i := w.Rim.Inertia()
	for _, s := range w.Spokes {
		i += s.Inertia()
	}
	return i
}

// polar converts (r, theta, z) to Cartesian with theta measured from the
// bottom of the wheel.
func polar(r, theta, z float64) r3.Vec {
	return r3.Vec{X: r * math.Sin(theta), Y: -r * math.Cos(theta), Z: z}
}

func normAngle(theta float64) float64 {
	t := math.Mod(theta, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	return t
}

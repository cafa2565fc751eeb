package points

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

// Store is the read-only sequence of points loaded for one run.
type Store struct {
	pts []Point
}

// New copies pts into a new Store.
func New(pts []Point) *Store {
	return &Store{pts: slices.Clone(pts)}
}

// Load reads lines of two whitespace-separated floats from r.
//
// Reading stops at the first line that does not start with two parsable
// floats, or at EOF. Lines of any length are accepted. The points read up to that line are kept, so a source
// without any valid line yields an empty Store and no error. Only read
// failures of r are reported.
func Load(r io.Reader) (*Store, error) {
	var s Store
	sc := bufio.NewScanner(r)
	// lines have no length limit
	sc.Buffer(make([]byte, 0, 64*1024), math.MaxInt)
	for sc.Scan() {
		p, ok := parseLine(sc.Text())
		if !ok {
			return &s, nil
		}
		s.pts = append(s.pts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}
	return &s, nil
}

func parseLine(line string) (Point, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Point{}, false
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Point{}, false
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func (s *Store) Len() int {
	return len(s.pts)
}

// At returns the i-th point. It panics if i is out of range.
func (s *Store) At(i int) Point {
	if i < 0 || i >= len(s.pts) {
		panic(fmt.Sprintf("points: index %d out of range [0, %d)", i, len(s.pts)))
	}
	return s.pts[i]
}

func (s *Store) All() []Point {
	return slices.Clone(s.pts)
}

// SqDist is the squared Euclidean distance between p and q.
func SqDist(p, q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

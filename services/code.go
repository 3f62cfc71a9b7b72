package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// CodeGenerator produces public quiz codes of the form quiz_<unix-millis>_<0..999>.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

func (g *CodeGenerator) Next() string {
	g.mu.Lock()
	suffix := g.rnd.Intn(1000)
	g.mu.Unlock()
	return fmt.Sprintf("quiz_%d_%d", g.now().UnixMilli(), suffix)
}

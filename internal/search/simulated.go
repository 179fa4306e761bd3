package search

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
)

var simulatedBases = []string{
	"Laptop Gamer", "Smartphone Pro", "Fone Bluetooth", "Smartwatch X",
	"Tablet 10", "Câmera 4K", "Console NextGen", "Mouse Ergonômico",
	"Teclado Mecânico", "Monitor Ultrawide",
}

var simulatedDescriptions = []string{
	"Desempenho incrível para jogos e trabalho.",
	"Câmera de alta resolução e bateria duradoura.",
	"Som imersivo e cancelamento de ruído.",
	"Monitore sua saúde e notificações.",
	"Ideal para leitura, vídeos e navegação.",
	"Capture seus melhores momentos com qualidade profissional.",
	"Gráficos de última geração e jogos exclusivos.",
	"Conforto para longas horas de uso.",
	"Resposta tátil e iluminação RGB.",
	"Experiência visual ampla e imersiva.",
}

// Simulated generates search results locally, matching the collaborator's
// shape. Used when no search endpoint is configured, so the full ingest
// pipeline stays exercisable in development.
type Simulated struct {
	// Rand allows deterministic output in tests; nil uses the global source.
	Rand *rand.Rand
}

func (s *Simulated) Search(_ context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	base := make([]Result, 0, 10)
	for i := 0; i < 10; i++ {
		name := simulatedBases[s.intn(len(simulatedBases))]
		base = append(base, Result{
			Name:        fmt.Sprintf("%s #%d", name, s.intn(100)+1),
			Description: simulatedDescriptions[s.intn(len(simulatedDescriptions))],
			ImageURL:    "https://placehold.co/400x300.png",
			Price:       FlexString(fmt.Sprintf("%.2f", 50+s.float64()*3450)),
		})
	}

	lower := strings.ToLower(query)
	filtered := make([]Result, 0, len(base))
	for _, r := range base {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.Description), lower) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *Simulated) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

func (s *Simulated) float64() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

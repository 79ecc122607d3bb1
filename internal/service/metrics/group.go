package metrics

import (
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
)

// bucket accumulates one group of events.
type bucket struct {
	records int
	days    float64
	rows    []int
}

// groupBy buckets events by key in first-seen order. Events for which key
// reports false are left out, as null group keys are.
func groupBy[K comparable](events []event.Event, key func(event.Event) (K, bool)) ([]K, map[K]*bucket) {
	order := make([]K, 0)
	buckets := make(map[K]*bucket)

	for i, e := range events {
		k, ok := key(e)
		if !ok {
			continue
		}
		b, exists := buckets[k]
		if !exists {
			b = &bucket{}
			buckets[k] = b
			order = append(order, k)
		}
		if e.Type != nil {
			b.records++
		}
		b.days += e.Days
		b.rows = append(b.rows, i)
	}
	return order, buckets
}

func siteKey(e event.Event) (string, bool) {
	if e.Site == nil {
		return "", false
	}
	return *e.Site, true
}

func typeKey(e event.Event) (string, bool) {
	if e.Type == nil {
		return "", false
	}
	return *e.Type, true
}

type personKey struct {
	rut  string
	name string
}

func byPerson(e event.Event) (personKey, bool) {
	if e.RUT == "" {
		return personKey{}, false
	}
	return personKey{rut: e.RUT, name: e.Name}, true
}

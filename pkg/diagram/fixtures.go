package diagram

// DistanceUnit is the distance unit of the transport graph.
const DistanceUnit = "км"

// TransportGraph returns the delivery network of Рисунок 1: warehouse A,
// intermediate points Б, В, Г and the client. The highlighted route
// A → В → Г → Клиент is 9 km long.
func TransportGraph() Graph {
	return Graph{
		Unit: DistanceUnit,
		Nodes: []Node{
			{ID: "A", X: 100, Y: 200, Label: "Склад А"},
			{ID: "B", X: 250, Y: 100, Label: "Пункт Б"},
			{ID: "C", X: 250, Y: 300, Label: "Пункт В"},
			{ID: "D", X: 400, Y: 150, Label: "Пункт Г"},
			{ID: "E", X: 500, Y: 200, Label: "Клиент"},
		},
		Edges: []Edge{
			{From: "A", To: "B", Weight: 4},
			{From: "A", To: "C", Weight: 2, Highlight: true},
			{From: "B", To: "D", Weight: 3},
			{From: "C", To: "D", Weight: 5, Highlight: true},
			{From: "D", To: "E", Weight: 2, Highlight: true},
		},
	}
}

// ProjectNetwork returns the warehouse-system rollout of Рисунок 2. Work A
// (3 days) and C (4 days) are critical; B (2 days) has one day of slack.
func ProjectNetwork() Network {
	return Network{
		Activities: []Activity{
			{ID: 1, X: 100, Y: 200, Label: "Старт", Critical: true, Milestone: true},
			{ID: 2, X: 250, Y: 150, Label: "A (3д)", Critical: true},
			{ID: 3, X: 250, Y: 250, Label: "B (2д)"},
			{ID: 4, X: 400, Y: 200, Label: "C (4д)", Critical: true},
			{ID: 5, X: 500, Y: 200, Label: "Финиш", Critical: true, Milestone: true},
		},
		Connections: []Connection{
			{From: 1, To: 2, Critical: true},
			{From: 1, To: 3},
			{From: 2, To: 4, Critical: true},
			{From: 3, To: 4},
			{From: 4, To: 5, Critical: true},
		},
	}
}

// ProjectDurations returns the duration in days of each activity of
// ProjectNetwork, keyed by activity id. Milestones take no time.
func ProjectDurations() map[int]float64 {
	return map[int]float64{1: 0, 2: 3, 3: 2, 4: 4, 5: 0}
}

package model

// Badge is a static achievement catalog entry. Badges unlock when a
// student's cumulative points reach Points.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// BadgeCatalog is the fixed badge catalog, ordered by ascending threshold.
var BadgeCatalog = []Badge{
	{ID: "badge100", Name: "Pemula Hebat", Icon: "🥉", Points: 100, Description: "Kumpulkan 100 poin"},
	{ID: "badge250", Name: "Juara Muda", Icon: "🥈", Points: 250, Description: "Kumpulkan 250 poin"},
	{ID: "badge500", Name: "Master Matematika", Icon: "🥇", Points: 500, Description: "Kumpulkan 500 poin"},
	{ID: "badge1000", Name: "Legenda Matematika", Icon: "👑", Points: 1000, Description: "Kumpulkan 1000 poin"},
}

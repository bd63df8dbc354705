package model

// Nutrients is a per-100g nutrient composition. All masses are grams
// unless the field name says otherwise.
type Nutrients struct {
	Protein float64 `json:"protein,omitempty"`
	Simple  float64 `json:"simple,omitempty"`  // simple carbohydrate
	Complex float64 `json:"complex,omitempty"` // complex carbohydrate
	BadFat  float64 `json:"badFat,omitempty"`  // saturated
	GoodFat float64 `json:"goodFat,omitempty"` // unsaturated
	Trans   float64 `json:"trans,omitempty"`
	Fiber   float64 `json:"fiber,omitempty"`

	GI float64 `json:"gi,omitempty"` // glycemic index

	SodiumMG      float64 `json:"sodiumMg,omitempty"`
	PotassiumMG   float64 `json:"potassiumMg,omitempty"`
	MagnesiumMG   float64 `json:"magnesiumMg,omitempty"`
	CalciumMG     float64 `json:"calciumMg,omitempty"`
	PhosphorusMG  float64 `json:"phosphorusMg,omitempty"`
	IronMG        float64 `json:"ironMg,omitempty"`
	ZincMG        float64 `json:"zincMg,omitempty"`
	SeleniumMCG   float64 `json:"seleniumMcg,omitempty"`
	CholesterolMG float64 `json:"cholesterolMg,omitempty"`

	Omega3 float64 `json:"omega3,omitempty"`
	Omega6 float64 `json:"omega6,omitempty"`

	// AddedSugar is the declared added sugar when the label provides it.
	AddedSugar float64 `json:"addedSugar,omitempty"`

	VitAMCG   float64 `json:"vitAMcg,omitempty"`
	VitCMG    float64 `json:"vitCMg,omitempty"`
	VitDMCG   float64 `json:"vitDMcg,omitempty"`
	VitEMG    float64 `json:"vitEMg,omitempty"`
	VitKMCG   float64 `json:"vitKMcg,omitempty"`
	VitB1MG   float64 `json:"vitB1Mg,omitempty"`
	VitB2MG   float64 `json:"vitB2Mg,omitempty"`
	VitB3MG   float64 `json:"vitB3Mg,omitempty"`
	VitB6MG   float64 `json:"vitB6Mg,omitempty"`
	VitB9MCG  float64 `json:"vitB9Mcg,omitempty"`
	VitB12MCG float64 `json:"vitB12Mcg,omitempty"`
}

// Carbs returns total carbohydrate per 100g.
func (n Nutrients) Carbs() float64 { return n.Simple + n.Complex }

// Fat returns total fat per 100g.
func (n Nutrients) Fat() float64 { return n.BadFat + n.GoodFat + n.Trans }

// Kcal returns the energy per 100g. Protein uses a TEF-adjusted factor of 3.
func (n Nutrients) Kcal() float64 {
	return n.Protein*3 + n.Carbs()*4 + n.Fat()*9
}

// Product is a food item with per-100g composition.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	NovaGroup int       `json:"novaGroup,omitempty"` // 1-4, 0 = unknown
	Per100    Nutrients `json:"per100"`
}

// ProductIndex resolves product ids to their composition. A missing id is a
// normal condition: the item is skipped, never an error.
type ProductIndex map[string]*Product

// Lookup returns the product for id, if present.
func (idx ProductIndex) Lookup(id string) (*Product, bool) {
	if idx == nil {
		return nil, false
	}
	p, ok := idx[id]
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

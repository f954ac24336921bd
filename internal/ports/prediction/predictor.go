package prediction

import "context"

// Sample son los campos codificados que consume el clasificador externo.
type Sample struct {
	Age  int    `json:"Age"`
	Sexe int    `json:"Sexe"`
	Etat string `json:"Etat"`
	EN   string `json:"EN"`
	T    string `json:"T"`
	F    string `json:"F"`
	AST  string `json:"AST"`
	A    string `json:"A"`
	C    string `json:"C"`
	Dys  string `json:"Dys"`
	SDRA string `json:"SDRA"`
	E    string `json:"E"`
	D    string `json:"D"`
	ANS  string `json:"ANS"`
	AGU  string `json:"AGU"`
	DD   string `json:"DD"`
}

// Assessment es el veredicto del clasificador: clase de riesgo + confianza.
type Assessment struct {
	Class       int     `json:"Class"`
	Probability float64 `json:"probability"`
}

// Predictor clasifica una consulta. El registro nunca predice por sí mismo;
// solo almacena y muestra lo que devuelva la implementación.
type Predictor interface {
	Predict(ctx context.Context, in Sample) (Assessment, error)
}

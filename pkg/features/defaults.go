package features

// Labels used by the yes/no questions.
const (
	LabelYes = "Sim"
	LabelNo  = "Não"
)

var (
	// shared by most yes/no questions
	no0  = Option{Label: LabelNo, Code: 0}
	yes1 = Option{Label: LabelYes, Code: 1}
	// transporte was fitted with the inverted encoding: walking or cycling
	// is 0.
	yes0 = Option{Label: LabelYes, Code: 0}
	no1  = Option{Label: LabelNo, Code: 1}
)

// Default returns the canonical seventeen-feature catalog in its declared
// order.
func Default() *Catalog {
	return MustNewCatalog(
		Numeric("vegetais", "Com que frequência você come vegetais? (1 a 3)", 1, 3),
		Numeric("ref_principais", "Quantas refeições principais você faz por dia? (1 a 4)", 1, 4),
		Numeric("agua", "Quantos litros de água você bebe por dia? (1 a 3)", 1, 3),
		Numeric("atv_fisica", "Com que frequência você pratica atividade física? (0 a 3)", 0, 3),
		Numeric("atv_eletronica", "Com que frequência você usa dispositivos eletrônicos para lazer? (0 a 2)", 0, 2),
		AtLeast("idade", "Qual a sua idade? (inteiro)", 0),
		AtLeast("peso", "Qual o seu peso em kg? (inteiro)", 0),
		Decimal("altura", "Qual a sua altura em metros? (ex: 1.75)", 0, 2),
		Binary("historico", "Você tem histórico familiar de obesidade?", no0, yes1),
		Binary("al_calorico", "Você consome frequentemente alimentos calóricos?", no0, yes1),
		Binary("ctrl_caloria", "Você monitora a ingestão de calorias?", no0, yes1),
		Binary("entre_ref", "Você come entre as refeições principais?", no0, yes1),
		Binary("fumante", "Você é fumante?", no0, yes1),
		Binary("alcool", "Você consome álcool?", no0, yes1),
		Binary("transporte", "Seu meio de transporte principal envolve caminhada ou bicicleta?", yes0, no1),
		Binary("feminino", "Seu gênero é feminino?", no0, yes1),
		Binary("masculino", "Seu gênero é masculino?", no0, yes1),
	)
}

package lexer

var kindNames = map[Kind]string{
	EOF: "EOF", Ident: "IDENT", Int: "INT", Float: "FLOAT", Hex: "HEX",
	KwSize: "size", KwView: "view", KwColor: "color", KwStart: "start",
	KwRule: "rule", KwPolygon: "polygon", KwCall: "call", KwIf: "if",
	KwEscape: "escape", KwUntil: "until", KwIterations: "iterations",
	KwTransformation: "transformation", KwPoints: "points",
	KwTranslate: "translate", KwScale: "scale", KwRotate: "rotate", KwShear: "shear",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",", Semi: ";",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Lt: "<", Gt: ">", Pipe: "|", Assign: ":=", Percent: "%", Cross: "×",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

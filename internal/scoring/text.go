package scoring

import "teaminsight/internal/models"

// AxisMeta is the display metadata for one axis.
type AxisMeta struct {
	Axis       models.Axis `json:"axis"`
	Name       string      `json:"name"`
	LeftLabel  string      `json:"leftLabel"`
	RightLabel string      `json:"rightLabel"`
	Color      string      `json:"color"`
}

var axisMeta = map[models.Axis]AxisMeta{
	models.AxisEnergy:   {Axis: models.AxisEnergy, Name: "行動エネルギー", LeftLabel: "慎重", RightLabel: "即行動", Color: "#6366f1"},
	models.AxisThinking: {Axis: models.AxisThinking, Name: "判断基準", LeftLabel: "共感", RightLabel: "論理", Color: "#8b5cf6"},
	models.AxisPlanning: {Axis: models.AxisPlanning, Name: "進め方", LeftLabel: "柔軟", RightLabel: "計画", Color: "#06b6d4"},
	models.AxisVision:   {Axis: models.AxisVision, Name: "視点", LeftLabel: "具体", RightLabel: "抽象", Color: "#f59e0b"},
}

// AxisInfo returns the display name, pole labels and chart color of an axis.
func AxisInfo(axis models.Axis) AxisMeta {
	return axisMeta[axis]
}

var tendencyLabels = map[models.Axis][3]string{
	models.AxisEnergy:   {"石橋を叩いてから渡る派", "状況を見て切り替える派", "まず動いてみる派"},
	models.AxisThinking: {"人の気持ちを大事にする派", "バランスを見て判断する派", "データと論理で決める派"},
	models.AxisPlanning: {"臨機応変に対応する派", "計画と柔軟さを両立する派", "計画をしっかり立てる派"},
	models.AxisVision:   {"具体例から入る派", "具体と抽象を行き来する派", "大きな絵から入る派"},
}

var workExamples = map[models.Axis][3]string{
	models.AxisEnergy: {
		"会議では全員の意見を聞いてから結論を出すことが多い",
		"情報がある程度揃ったら決断に動くことが多い",
		"6割くらい情報が揃ったら、まず動いて調整する",
	},
	models.AxisThinking: {
		"フィードバックするとき、相手の反応を見ながら言い方を変える",
		"意見が割れたとき、納得感と根拠の両方を意識する",
		"フィードバックは事実ベースでストレートに伝える",
	},
	models.AxisPlanning: {
		"予定変更があったら、まず影響範囲を確認してから動く",
		"計画は立てるけど、状況次第で柔軟に変える",
		"最初に計画を固めて、それに沿って進めたい",
	},
	models.AxisVision: {
		"説明するとき、まず具体例から入ることが多い",
		"具体例と全体像を行き来しながら説明する",
		"話すとき、まず目的や全体像から入ることが多い",
	},
}

var comments = map[models.Axis][3]string{
	models.AxisEnergy: {
		"情報が揃ってから動くほうが安心するタイプ。じっくり考えてから決めたい。",
		"状況を見てスピードを調整するタイプ。急ぐときは急ぐ、慎重なときは慎重に。",
		"まず動いてから考えるタイプ。走りながら調整するほうが性に合う。",
	},
	models.AxisThinking: {
		"相手の気持ちや場の雰囲気を大事にするタイプ。まわりへの配慮を忘れない。",
		"感情と論理、両方を見て判断するタイプ。バランス感覚がある。",
		"データや論理で判断するタイプ。感情より事実を優先したい。",
	},
	models.AxisPlanning: {
		"状況に合わせて柔軟に動くタイプ。決めすぎないほうがうまくいく。",
		"計画は立てつつ、必要なら柔軟に変えるタイプ。ガチガチには決めない。",
		"計画を立ててから進めたいタイプ。段取りがあると安心する。",
	},
	models.AxisVision: {
		"具体的な話から入るほうが考えやすいタイプ。現実的な視点を大切にする。",
		"具体と抽象、どちらの視点も使えるタイプ。話の粒度を調整できる。",
		"大きな絵や目的から入るタイプ。全体像を押さえてから細部に行きたい。",
	},
}

// TendencyLabel returns the short label for an axis score, keyed by its
// ScoreRange.
func TendencyLabel(axis models.Axis, score int) string {
	return lookup(tendencyLabels, axis, variantForRange(ScoreRangeOf(score)))
}

// WorkExample returns a sentence describing how the tendency shows up at work.
func WorkExample(axis models.Axis, score int) string {
	return lookup(workExamples, axis, variantForRange(ScoreRangeOf(score)))
}

// Comment returns the detailed-view comment for an axis score. It uses its
// own 33/60 split rather than ScoreRangeOf or TendencyOf.
func Comment(axis models.Axis, score int) string {
	return lookup(comments, axis, commentVariant(score))
}

// AxisComments returns Comment for every axis.
func AxisComments(scores models.AxisScores) map[models.Axis]string {
	out := make(map[models.Axis]string, len(models.Axes))
	for _, axis := range models.Axes {
		out[axis] = Comment(axis, scores.Get(axis))
	}
	return out
}

func lookup(table map[models.Axis][3]string, axis models.Axis, v textVariant) string {
	row, ok := table[axis]
	if !ok {
		return ""
	}
	return row[v]
}

package analysis

import "google.golang.org/genai"

// Prompt is the instruction sent alongside every photo. It describes the
// seven fields the response schema enforces.
const Prompt = `당신은 유머러스하면서도 실력이 확실한 '스타 피부 분석가' AI입니다.
제공된 목 사진을 보고 목주름의 깊이를 1~5단계로 분석해주세요.

재미와 정보를 동시에 주기 위해 다음 형식을 엄격히 지켜주세요:
- level: 1(아기 목결) ~ 5(세월의 마스터) 사이의 정수
- nickname: 해당 단계를 표현하는 아주 기발하고 재미있는 별명 (예: "방금 태어난 도자기", "접힌 흔적의 미학", "중력과의 사투" 등)
- skinAge: 이미지 분석을 토대로 추정한 재미있는 '목 피부 나이'
- similarityEmoji: 단계를 잘 표현하는 아이콘/이모지 하나
- description: 전문적이면서도 살짝 위트 섞인 상태 설명
- advice: 지금 바로 실천할 수 있는 꿀팁
- careRoutine: 우리의 비장의 무기인 '펩타이드 크림'과 '히알루론산 패치'를 이 사람의 단계에 맞춰 어떻게 쓰면 '역전'이 가능한지 상세 설명. 반드시 "1단계"와 "2단계"로 나누어 작성

JSON 응답 필수.`

// Field names of the response object, in schema order
var resultFields = []string{
	"level",
	"nickname",
	"skinAge",
	"similarityEmoji",
	"description",
	"advice",
	"careRoutine",
}

// ResponseSchema is the strict output shape requested from the model
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"level":           {Type: genai.TypeNumber},
			"nickname":        {Type: genai.TypeString},
			"skinAge":         {Type: genai.TypeNumber},
			"similarityEmoji": {Type: genai.TypeString},
			"description":     {Type: genai.TypeString},
			"advice":          {Type: genai.TypeString},
			"careRoutine":     {Type: genai.TypeString},
		},
		Required:         append([]string(nil), resultFields...),
		PropertyOrdering: append([]string(nil), resultFields...),
	}
}

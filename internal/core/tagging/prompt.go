package tagging

import (
	"strings"
)

// MaxTags は生成を依頼するタグの上限
const MaxTags = 10

// BuildPrompt はナラティブからタグ生成用のプロンプトを構築する
func BuildPrompt(narrative string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(narrative))
	sb.WriteString("\n\n")

	sb.WriteString("위 인재 프로필을 바탕으로 학력, 경력, 기술, 기타 특징을 대표하는 커리어 태그를 최대 10개 추론하세요.\n\n")

	sb.WriteString("## 태그 카테고리\n")
	sb.WriteString("- 학력: 예) 상위권대학교, 해외대학\n")
	sb.WriteString("- 경력: 예) 대기업, 스타트업, 빅테크, 창업, 리더십\n")
	sb.WriteString("- 기술: 예) 백엔드개발, 대용량데이터처리, 전략기획, AI모델개발\n")
	sb.WriteString("- 기타: 예) 글로벌경험, 커뮤니케이션, 사업개발\n\n")

	sb.WriteString("## 작성 규칙\n")
	sb.WriteString("- 태그는 한국어로, 1~3단어로 간결하게 작성\n")
	sb.WriteString("- 프로필과 관련 있는 태그만 작성\n")
	sb.WriteString("- 태그는 10개를 넘기지 말 것\n")
	sb.WriteString("- 각 태그 뒤 괄호 안에 프로필에서 찾은 근거를 짧게 작성\n\n")

	sb.WriteString("## 출력 형식\n")
	sb.WriteString("- 태그1 (근거1)\n")
	sb.WriteString("- 태그2 (근거2)\n")
	sb.WriteString("...\n")

	return sb.String()
}

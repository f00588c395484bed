package usecases

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"justissimo-api/assets"
	"justissimo-api/utils"
)

const closureSubject = "Encerramento de Agendamento"

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "signature"}}<p><b>Atenciosamente,<br> Equipe Justissimo</b></p>
<img src="cid:justissimo_logo">{{end}}

{{define "cancelled_by_lawyer"}}<p>Olá {{.Client}},</p>
<p>Informamos que o agendamento foi <b>cancelado</b> pelo advogado {{.Lawyer}}.</p>
<p><b>Justificativa:</b> {{.Justification}}</p>
{{template "signature"}}{{end}}

{{define "cancelled_by_client"}}<p>Olá {{.Lawyer}},</p>
<p>Informamos que o agendamento foi <b>cancelado</b> pelo cliente {{.Client}}.</p>
<p><b>Justificativa:</b> {{.Justification}}</p>
{{template "signature"}}{{end}}

{{define "service_ended"}}<p>Olá,</p>
<p>Informamos que o agendamento foi <b>encerrado</b> com sucesso!</p>
<p><b>Justificativa:</b> {{.Justification}}</p>
{{template "signature"}}{{end}}

{{define "review_invitation"}}<p>Olá, {{.Client}}</p>
<p>Gostaríamos de informar que você já pode realizar a <b>avaliação</b> do advogado {{.Lawyer}}!</p>
<p><b>As avaliações são muito importantes para que outros usuários possam entender como foi sua experiência.</b></p>
<p>Para realizar a avaliação, basta acessar o justíssimo, encontrar o advogado {{.Lawyer}}, acessando o perfil do mesmo estará habilitado
a opção <b>(Avaliar Advogado)</b> onde poderá deixar sua avaliação juntamente com um comentário.</p>
{{template "signature"}}{{end}}
`))

type emailData struct {
	Client        string
	Lawyer        string
	Justification string
}

// composeEmail renders the template named after the notification kind. Blank recipients are dropped.
func composeEmail(kind, from string, to []string, data emailData) (utils.Email, error) {
	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, kind, data); err != nil {
		return utils.Email{}, fmt.Errorf("failed to render %s email: %w", kind, err)
	}

	recipients := make([]string, 0, len(to))
	for _, addr := range to {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}

	return utils.Email{
		From:    from,
		To:      recipients,
		Subject: closureSubject,
		HTML:    body.String(),
		Inline: []utils.InlineFile{{
			Filename:  assets.LogoFilename,
			ContentID: assets.LogoContentID,
			Data:      assets.Logo,
		}},
	}, nil
}

func firstName(fullName string) string {
	if parts := strings.Fields(fullName); len(parts) > 0 {
		return parts[0]
	}
	return ""
}

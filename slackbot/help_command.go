package slackbot

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

const helpText = "Available commands:\n" +
	"/help - Show this help message\n" +
	"/price <model> <option_type> <sensitivity> <json> - Price strikes, e.g. /price merton call price {...}\n" +
	"/ranges <model> - Show parameter ranges for cgmy, merton, heston or cgmyse"

func (h *HelpHandler) Reply() string {
	return helpText
}

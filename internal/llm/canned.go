package llm

import (
	"context"
	"math/rand/v2"

	"arogyakrishi/internal/model"
)

var cannedReplies = map[string][]string{
	"en": {
		"Based on your question, I recommend consulting with a local agricultural expert for specific advice.",
		"That's a great question about farming! For the best results, consider factors like soil quality, weather patterns, and crop rotation.",
		"In my experience, proper irrigation and pest management are key to healthy crops. What specific crop are you growing?",
		"I suggest monitoring your plants regularly for signs of disease or pest damage. Early detection is crucial.",
		"For optimal growth, ensure your plants receive adequate sunlight, water, and nutrients. What issue are you facing?",
	},
	"hi": {
		"आपके प्रश्न के आधार पर, मैं विशिष्ट सलाह के लिए स्थानीय कृषि विशेषज्ञ से परामर्श करने की सलाह देता हूं।",
		"खेती के बारे में यह एक बढ़िया सवाल है! सर्वोत्तम परिणामों के लिए, मिट्टी की गुणवत्ता, मौसम के पैटर्न और फसल चक्र जैसे कारकों पर विचार करें।",
		"मेरे अनुभव में, स्वस्थ फसलों के लिए उचित सिंचाई और कीट प्रबंधन महत्वपूर्ण हैं। आप कौन सी फसल उगा रहे हैं?",
		"मैं आपके पौधों की नियमित रूप से बीमारी या कीट क्षति के संकेतों के लिए निगरानी करने का सुझाव देता हूं। शीघ्र पता लगाना महत्वपूर्ण है।",
		"इष्टतम वृद्धि के लिए, सुनिश्चित करें कि आपके पौधों को पर्याप्त धूप, पानी और पोषक तत्व मिलें। आप किस समस्या का सामना कर रहे हैं?",
	},
	"te": {
		"మీ ప్రశ్న ఆధారంగా, నేను నిర్దిష్ట సలహా కోసం స్థానిక వ్యవసాయ నిపుణుడిని సంప్రదించాలని సిఫార్సు చేస్తున్నాను.",
		"వ్యవసాయం గురించి ఇది గొప్ప ప్రశ్న! ఉత్తమ ఫలితాల కోసం, నేల నాణ్యత, వాతావరణ నమూనాలు మరియు పంట మార్పిడి వంటి అంశాలను పరిగణించండి.",
		"నా అనుభవంలో, ఆరోగ్యకరమైన పంటలకు సరైన నీటిపారుదల మరియు పెస్ట్ నిర్వహణ కీలకం. మీరు ఏ నిర్దిష్ట పంటను పెంచుతున్నారు?",
		"వ్యాధి లేదా పెస్ట్ నష్టం యొక్క సంకేతాల కోసం మీ మొక్కలను క్రమం తప్పకుండా పర్యవేక్షించాలని నేను సూచిస్తున్నాను. ముందస్తు గుర్తింపు కీలకం.",
		"సరైన వృద్ధి కోసం, మీ మొక్కలకు తగినంత సూర్యరశ్మి, నీరు మరియు పోషకాలు అందుతున్నాయని నిర్ధారించుకోండి. మీరు ఏ సమస్యను ఎదుర్కొంటున్నారు?",
	},
}

// CannedAssistant answers from a fixed set of localized replies. Languages
// without their own set get English.
type CannedAssistant struct{}

func (CannedAssistant) Enabled() bool { return false }

func (CannedAssistant) Reply(_ context.Context, language string, _ []model.ChatTurn) (string, error) {
	replies := CannedReplies(language)
	return replies[rand.IntN(len(replies))], nil
}

func (CannedAssistant) Transcribe(context.Context, []byte, string, string) (string, error) {
	return "", ErrDisabled
}

func (CannedAssistant) Synthesize(context.Context, string) ([]byte, error) {
	return nil, ErrDisabled
}

// CannedReplies returns the reply set used for language.
func CannedReplies(language string) []string {
	if replies, ok := cannedReplies[language]; ok {
		return replies
	}
	return cannedReplies["en"]
}

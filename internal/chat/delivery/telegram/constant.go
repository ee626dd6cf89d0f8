package telegram

const (
	welcomeText = "👋 Welcome to *OCI Copilot*!\n\nTell me what you need in plain language and I will plan and run it against your tenancy:\n• 📋 \"list instances in production\"\n• 🚀 \"create a bucket called logs\"\n• 🛑 \"stop instance web-3\"\n\nDestructive actions always wait for your confirmation."

	helpText = "*How to use:*\n\nDescribe the operation naturally, for example:\n`launch an instance named api-2 in the dev compartment`\n\nI will ask for any missing details, confirm destructive changes, then run the steps and report each result. Say `cancel` at any time to drop the current request."

	processingText = "⏳ Working on it..."

	failureText = "Something went wrong while handling your request. Please try again."
)

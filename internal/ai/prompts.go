package ai

// Prompt templates sent to the generative API. Keep the JSON contract in
// parseCommandPrompt in sync with the Command struct.

const parseCommandPrompt = `You are a helpful assistant that extracts phone numbers and call instructions from user input.
If the user wants to make a call, extract the phone number and any message they want to convey.
Respond ONLY with valid JSON in this format (no markdown, no code blocks):
{
  "action": "make_call",
  "phone_number": "+1234567890",
  "message": "optional custom message"
}
If no phone number is found, respond with:
{
  "action": "none",
  "error": "No phone number found in the input"
}

IMPORTANT: The phone number MUST start with + and country code (e.g., +1 for USA, +91 for India).

User input: `

const articlePromptHeader = "You are a professional technical writer specializing in programming topics. Write clear, informative, and engaging articles.\n\n"

const articlePromptFooter = "\n\nThe article should be informative, well-structured with headings, and at least 800 words long."

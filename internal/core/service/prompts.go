package service

import "fmt"

// JupiterSwapURL builds the swap link every token analysis must carry.
func JupiterSwapURL(address string) string {
	return "https://jup.ag/swap/So11111111111111111111111111111111111111112-" + address
}

const tokenPromptTemplate = `You are an expert crypto meme coin analyst. Analyze the following token data:

%s

Return JSON only with:
{
  "summary": "",
  "riskScore": 0,
  "strengthScore": 0,
  "memeVibe": "",
  "pros": [],
  "cons": [],
  "degenComment": "",
  "jupiterUrl": ""
}

Risk score: 1 (very safe) to 10 (super risky)
Strength score: 1 (weak) to 10 (strong momentum)
Meme vibe: short description of the "energy" behind the token.
Pros: list of positive factors.
Cons: list of concerns or red flags.
Degen comment: entertaining, meme-friendly one-liner in degen culture style.

Jupiter URL must be formatted exactly as:
"%s"`

const transactionPromptTemplate = `You are an on-chain transaction explainer for degen traders. Analyze the following transaction:

%s

Return JSON only with:
{
  "summary": "",
  "actions": [],
  "feeUsd": 0,
  "riskNotes": []
}

summary: one or two sentences describing, in plain language, what happened and why it might matter.
actions: bullet-style list of concrete actions (e.g., "Swapped X for Y", "Bridged funds from A to B", "Approved an infinite allowance for token Z").
feeUsd: numeric best estimate of the fee in USD. If truly unknown, leave 0.
riskNotes: list of any potential risks or "watch out" items (e.g., "Large approval to unknown contract", "Thin liquidity", "New contract with no history").`

const walletPromptTemplate = `You are an expert crypto trading psychologist and on-chain analyst. Analyze the following wallet data:

%s

Return JSON only with:
{
  "personality": "",
  "tradingStyle": "",
  "riskScore": 0,
  "performanceDirection": "",
  "favoriteThemes": [],
  "suggestions": []
}

personality: describe the wallet as a person (e.g., "high-conviction degen", "paper-handed scalper").
tradingStyle: describe how they trade (frequency, size, rotation behavior).
riskScore: 1 (very conservative) to 10 (absolute degen).
performanceDirection: short phrase like "trending up", "choppy", "slow bleed", "unknown".
favoriteThemes: list a few themes or token categories they seem to like (memes, L2, AI, dogs, frogs, blue chips, etc.).
suggestions: 3–5 practical tips tailored to this wallet's behavior.`

func tokenPrompt(contextJSON, address string) string {
	return fmt.Sprintf(tokenPromptTemplate, contextJSON, JupiterSwapURL(address))
}

func transactionPrompt(contextJSON string) string {
	return fmt.Sprintf(transactionPromptTemplate, contextJSON)
}

func walletPrompt(contextJSON string) string {
	return fmt.Sprintf(walletPromptTemplate, contextJSON)
}

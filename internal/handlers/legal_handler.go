package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - Resolve</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: August 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, trade profile, and the case and contract details you enter so we can provide the service. Documents you upload are stored on encrypted cloud storage.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used solely to operate Resolve, generate insights for your disputes, and process your payments. Case details sent to our AI provider are not used to train models.</p>
<h2>Data Storage</h2>
<p>Your data is stored securely on encrypted servers. We do not sell your personal information to third parties.</p>
<h2>Account Deletion</h2>
<p>You can request deletion of your account and all associated data at any time by contacting support.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at privacy@resolveai.app</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - Resolve</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: August 2026</p>
<h2>Acceptance</h2>
<p>By using Resolve, you agree to these terms.</p>
<h2>Not Legal Advice</h2>
<p>Resolve provides information and document tooling for tradespeople. Insights and templates are general guidance, not legal advice. For advice on your specific situation, consult a qualified practitioner.</p>
<h2>Purchases</h2>
<p>Strategy pack purchases are processed by our payment provider and grant a fixed number of credits. Credits are consumed when you open a new case and are non-transferable.</p>
<h2>Acceptable Use</h2>
<p>You agree not to upload unlawful content or misuse the service. We may suspend accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions about these terms, contact us at support@resolveai.app</p>
</body></html>`)
}

package knowledge

// Default returns the built-in TechStyle knowledge base, used when no
// KNOWLEDGE_PATH override is configured.
func Default() *Base {
	return &Base{
		Name:         "TechStyle",
		Tagline:      "a premium e-commerce store specializing in tech accessories and lifestyle products",
		Website:      "www.techstyle.com",
		SupportEmail: "support@techstyle.com",
		SupportPhone: "1-800-TECH-STYLE",
		Sections: []Section{
			{
				Title: "About TechStyle",
				Body: `TechStyle is a premium e-commerce store specializing in tech accessories and lifestyle products. We offer high-quality phone cases, laptop sleeves, smart home devices, wireless chargers, and more.`,
			},
			{
				Title: "Shipping Policy",
				Body: `- **Domestic Shipping (USA):**
  - Standard Shipping: 5-7 business days, FREE on orders over $50
  - Express Shipping: 2-3 business days, $9.99
  - Overnight Shipping: Next business day, $19.99
- **International Shipping:**
  - We ship to over 50 countries
  - Standard International: 10-15 business days, $14.99
  - Express International: 5-7 business days, $29.99
- Orders are processed within 1-2 business days
- Tracking number provided via email once shipped`,
			},
			{
				Title: "Return & Refund Policy",
				Body: `- **30-Day Return Window:** Items can be returned within 30 days of delivery
- **Condition:** Items must be unused, in original packaging with all tags attached
- **Process:**
  1. Request a return through your account or contact support
  2. Receive a prepaid return label via email
  3. Ship the item back within 7 days
  4. Refund processed within 5-7 business days after receipt
- **Non-Returnable Items:** Personalized/custom items, opened software, clearance items marked "Final Sale"
- **Exchanges:** Free exchanges for different sizes/colors (subject to availability)`,
			},
			{
				Title: "Support Hours",
				Body: `- **Live Chat:** Monday - Friday, 9 AM - 8 PM EST; Saturday, 10 AM - 6 PM EST
- **Email Support:** 24/7 (response within 24 hours)
- **Phone Support:** Monday - Friday, 9 AM - 5 PM EST at 1-800-TECH-STYLE
- **Closed:** Sundays and major US holidays`,
			},
			{
				Title: "Payment Methods",
				Body: `- Credit/Debit Cards: Visa, Mastercard, American Express, Discover
- Digital Wallets: Apple Pay, Google Pay, PayPal
- Buy Now, Pay Later: Klarna, Afterpay (4 interest-free payments)
- Gift Cards: TechStyle gift cards accepted`,
			},
			{
				Title: "Order Issues",
				Body: `- **Damaged Items:** Contact us within 48 hours with photos for immediate replacement
- **Missing Items:** We'll investigate and ship missing items at no cost
- **Wrong Items:** Free return label + priority shipping for correct item`,
			},
			{
				Title: "Loyalty Program - TechStyle Rewards",
				Body: `- Earn 1 point per $1 spent
- 100 points = $5 reward
- Members get early access to sales and exclusive discounts
- Free shipping on all orders for Gold members (500+ points/year)`,
			},
			{
				Title: "Current Promotions",
				Body: `- New customers: 15% off first order with code WELCOME15
- Free shipping on orders over $50
- Bundle deals: Buy 2 accessories, get 10% off`,
			},
			{
				Title: "Product Warranty",
				Body: `- All products come with a 1-year manufacturer warranty
- Extended warranty available for purchase (2 or 3 years)
- Warranty covers manufacturing defects, not accidental damage`,
			},
		},
	}
}

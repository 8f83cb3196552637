package urls

// Links shown on the result screen and embedded in share messages.

// ProductPage is the crowdfunding page for the neck-care set promoted
// by the result card call-to-action.
const ProductPage = "https://www.wadiz.kr/web/wcomingsoon/rwd/362833"

// SharePage is appended to share messages when no share_url is configured.
const SharePage = ProductPage

// ProductImage is the thumbnail shown next to the call-to-action.
const ProductImage = "https://images.unsplash.com/photo-1556229010-6c3f2c9ca5f8?auto=format&fit=crop&q=80&w=200"

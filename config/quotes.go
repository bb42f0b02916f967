package config

// defaultQuotes 是未配置字幕时使用的内置列表。
var defaultQuotes = []string{
	"When you finally find a quiet spot to check your phone",
	"Waiting for your friends to come online like...",
	"When you're the first one to arrive at the meeting spot",
	"That moment when you realize you left the oven on at home",
	"When you're trying to enjoy nature but can't stop thinking about work",
	"Contemplating whether to order takeout for the third time this week",
	"When you're on vacation but remember all the emails waiting for you",
	"Trying to remember if you locked the front door",
	"When you're enjoying the view but also wondering what's for dinner",
	"That feeling when you're ready for adventure but also kind of want a nap",
	"When you find the perfect Instagram spot but your phone is at 1%",
	"Wondering if it's too late to cancel plans and stay in",
	"When you're enjoying solitude but also lowkey hoping someone texts you",
	"That moment of peace before remembering your to-do list",
	"When you're trying to be one with nature but can't stop thinking about Wi-Fi",
}

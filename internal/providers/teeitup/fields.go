package teeitup

import (
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/providers/extract"
)

// The API has answered with one group per facility, a bare list and keyed objects.
var locators = []extract.Locator{
	extract.Flatten("teetimes"),
	extract.RootArray(),
	extract.Key("teetimes"),
	extract.Key("teeTimes"),
	extract.Key("data"),
}

var fields = providers.SlotFields{
	Time:       extract.Strings("teetime", "teeTime", "time", "startTime", "start_time"),
	FreeSpots:  extract.Ints("availableSpots", "available_spots", "openSpots", "spotsAvailable"),
	MaxPlayers: extract.Ints("maxPlayers", "max_players", "playerCount"),
	Booked:     extract.Ints("bookedPlayers", "booked_players", "playersBooked"),
	Price: append(extract.Floats("price", "greenFee", "displayPrice"),
		extract.Scaled(extract.FloatAt("rates", "0", "greenFeeCart"), 100),
		extract.Scaled(extract.FloatAt("rates", "0", "greenFeeWalking"), 100),
	),
	Holes: []extract.Strategy[int]{
		extract.IntAt("holes"),
		extract.IntAt("rates", "0", "holes"),
	},
	BookingURL: extract.Strings("bookingUrl", "booking_url"),
}

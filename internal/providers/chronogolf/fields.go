package chronogolf

import (
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/providers/extract"
)

var locators = []extract.Locator{
	extract.RootArray(),
	extract.Key("teetimes"),
	extract.Key("data"),
}

var fields = providers.SlotFields{
	Time:       extract.Strings("start_time", "startTime", "time", "teetime"),
	FreeSpots:  extract.Ints("available_spots", "free_slots", "availableSpots"),
	MaxPlayers: extract.Ints("max_player_size", "max_players", "maxPlayers"),
	Booked:     extract.Ints("booked_players", "bookedPlayers"),
	Full:       extract.Bools("out_of_capacity"),
	Open:       extract.Bools("available", "is_available"),
	Price: []extract.Strategy[float64]{
		extract.FloatAt("green_fees", "0", "green_fee"),
		extract.FloatAt("default_price", "green_fee"),
		extract.FloatAt("price"),
	},
	Holes: []extract.Strategy[int]{
		extract.IntAt("nb_holes"),
		extract.IntAt("holes"),
		extract.IntAt("course", "holes"),
	},
	BookingURL: extract.Strings("booking_url", "bookingUrl"),
}

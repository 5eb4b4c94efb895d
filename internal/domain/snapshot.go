package domain

import "encoding/json"

// The snapshot blob decoders are deliberately lenient: a malformed serialized
// sub-field reads back as an empty collection instead of failing the whole
// snapshot read.

func (s *SprintSnapshot) DecodeTickets() []Ticket {
    var out []Ticket
    if len(s.TicketsJSON) == 0 { return nil }
    if err := json.Unmarshal(s.TicketsJSON, &out); err != nil { return nil }
    return out
}

func (s *SprintSnapshot) DecodeAssignees() []AssigneeStat {
    var out []AssigneeStat
    if len(s.AssigneesJSON) == 0 { return nil }
    if err := json.Unmarshal(s.AssigneesJSON, &out); err != nil { return nil }
    return out
}

func (s *SprintSnapshot) DecodeDelivery() []TicketTiming {
    var out []TicketTiming
    if len(s.DeliveryJSON) == 0 { return nil }
    if err := json.Unmarshal(s.DeliveryJSON, &out); err != nil { return nil }
    return out
}

package types

// DraftSnapshot:
//   id: string
//   tournament: string
//   format: string
//   teamCount: number
//   teams: { [teamId]: { id, name, owner: string|null, picks: Pick[] } }
//   players: { [playerId]: { id, name, odds, tier } }
//   pickOrder: string[]          // team ids, fixed at creation
//   currentPickIndex: number     // index into pickOrder, advances on every pick
//   isActive: boolean
//   hasCompleted: boolean
//
// Pick:
//   id: string
//   player_id: string
//   team_id: string
//   round: number                // 1-based, per team
//   created_by: string|null

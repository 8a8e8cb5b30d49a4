package types

// Client -> Server
// join_draft:
//   draftId: string
//   userId: string
//
// leave_draft:
//   draftId: string
//   userId: string
//
// submit_pick:
//   draftId: string
//   teamId: string | number   // 3 and "3" are the same team
//   playerId: string
//   userId: string

// Server -> Client
// draft_state:
//   draftId: string
//   version: number
//   state: DraftSnapshot (see snapshot.go)
//
// user_joined / user_left:
//   draftId: string
//   userId: string
//
// error:
//   error: string     // only ever sent to the connection that caused it
//   message: string   // same text, for Socket.IO-era clients

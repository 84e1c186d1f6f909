package catalog

import "testing"

func TestInsertAndGetPlaylist(t *testing.T) {
	s := newTestStore(t)

	desc := "Test playlist"
	id, err := s.InsertPlaylist("My Playlist", &desc)
	if err != nil {
		t.Fatalf("InsertPlaylist: %v", err)
	}

	got, err := s.GetPlaylist(id)
	if err != nil {
		t.Fatalf("GetPlaylist: %v", err)
	}
	if got.Name != "My Playlist" || got.Description == nil || *got.Description != desc {
		t.Fatalf("got = %+v", got)
	}
}

func TestPlaylistTracksAddRemove(t *testing.T) {
	s := newTestStore(t)

	playlistID, _ := s.InsertPlaylist("Test Playlist", nil)
	trackID, _ := s.InsertTrack(sampleTrack("/music/test.mp3"))

	if err := s.AddTrackToPlaylist(playlistID, trackID); err != nil {
		t.Fatalf("AddTrackToPlaylist: %v", err)
	}

	tracks, err := s.GetPlaylistTracks(playlistID)
	if err != nil {
		t.Fatalf("GetPlaylistTracks: %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != trackID {
		t.Fatalf("tracks = %+v", tracks)
	}

	if err := s.RemoveTrackFromPlaylist(playlistID, trackID); err != nil {
		t.Fatalf("RemoveTrackFromPlaylist: %v", err)
	}
	tracks, err = s.GetPlaylistTracks(playlistID)
	if err != nil {
		t.Fatalf("GetPlaylistTracks: %v", err)
	}
	if len(tracks) != 0 {
		t.Fatalf("tracks after remove = %+v, want empty", tracks)
	}
}

func TestUpdatePlaylistTrackOrder(t *testing.T) {
	s := newTestStore(t)

	playlistID, _ := s.InsertPlaylist("Ordered", nil)
	id1, _ := s.InsertTrack(sampleTrack("/music/1.mp3"))
	id2, _ := s.InsertTrack(sampleTrack("/music/2.mp3"))
	id3, _ := s.InsertTrack(sampleTrack("/music/3.mp3"))

	if err := s.AddTrackToPlaylist(playlistID, id1); err != nil {
		t.Fatalf("AddTrackToPlaylist: %v", err)
	}
	if err := s.AddTrackToPlaylist(playlistID, id2); err != nil {
		t.Fatalf("AddTrackToPlaylist: %v", err)
	}
	if err := s.AddTrackToPlaylist(playlistID, id3); err != nil {
		t.Fatalf("AddTrackToPlaylist: %v", err)
	}

	if err := s.UpdatePlaylistTrackOrder(playlistID, []string{id3, id1, id2}); err != nil {
		t.Fatalf("UpdatePlaylistTrackOrder: %v", err)
	}

	tracks, err := s.GetPlaylistTracks(playlistID)
	if err != nil {
		t.Fatalf("GetPlaylistTracks: %v", err)
	}
	if len(tracks) != 3 || tracks[0].ID != id3 || tracks[1].ID != id1 || tracks[2].ID != id2 {
		t.Fatalf("unexpected order: %+v", tracks)
	}
}

func TestDeletePlaylist(t *testing.T) {
	s := newTestStore(t)

	id, _ := s.InsertPlaylist("Temp", nil)
	if err := s.DeletePlaylist(id); err != nil {
		t.Fatalf("DeletePlaylist: %v", err)
	}
	if _, err := s.GetPlaylist(id); err == nil {
		t.Fatal("expected error getting deleted playlist")
	}
}

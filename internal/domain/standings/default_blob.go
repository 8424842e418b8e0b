package standings

// DefaultBlob is the built-in sample payload served when nothing has been
// cached yet: nine teams, 27 cells.
const DefaultBlob Blob = `{"query":{"count":27,"created":"2015-03-25T19:16:04Z","lang":"en-US","results":{"td":[{"class":"team_name_td_yo","width":"250px","content":"Austin Bowie BullPuppies"},{"width":"30px","content":"5"},{"width":"30px","content":"0"},{"class":"team_name_td_yo","width":"250px","content":"Buda Hays Rebels"},{"width":"30px","content":"5"},{"width":"30px","content":"1"},{"class":"team_name_td_yo","width":"250px","content":"Austin Lake Travis Cavaliers"},{"width":"30px","content":"4"},{"width":"30px","content":"1"},{"class":"team_name_td_yo","width":"250px","content":"Austin Maroons"},{"width":"30px","content":"3"},{"width":"30px","content":"2"},{"class":"team_name_td_yo","width":"250px","content":"Kyle Lehman Lobos"},{"width":"30px","content":"2"},{"width":"30px","content":"3"},{"class":"team_name_td_yo","width":"250px","content":"Austin Anderson Trojans"},{"width":"30px","content":"2"},{"width":"30px","content":"4"},{"class":"team_name_td_yo","width":"250px","content":"Austin Akins Eagles"},{"width":"30px","content":"2"},{"width":"30px","content":"4"},{"class":"team_name_td_yo","width":"250px","content":"Austin Westlake Chaparrals"},{"width":"30px","content":"1"},{"width":"30px","content":"4"},{"class":"team_name_td_yo","width":"250px","content":"Del Valle Cardinals"},{"width":"30px","content":"0"},{"width":"30px","content":"5"}]}}}`
